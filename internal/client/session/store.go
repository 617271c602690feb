// Package session holds the client's authentication state machine:
//
//	Anonymous --Initialize--> Authenticated        (persisted credentials found)
//	Anonymous|Failed --Login--> Authenticating --> Authenticated | Failed
//	Authenticated --Verify--> Verifying --> Authenticated | Anonymous
//	any --Logout--> Anonymous
//
// A Store is created per process (or per test) and handed around through
// context.Context; there is no package-level instance.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/api"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/persist"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/dmitrijs2005/knowledgekeeper/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	msgLoginFailed   = "Login failed"
	msgVerifyFailed  = "Token verification failed"
	msgNoToken       = "No token found"
	msgSaveFailed    = "Failed to save session"
	msgFetchUsers    = "Failed to fetch users"
	msgCreateUser    = "Failed to create user"
	msgUpdateUser    = "Failed to update user"
	msgDeleteUser    = "Failed to delete user"
	msgNetworkFailed = "Network error occurred"
)

// AuthAPI is the slice of the backend the store talks to.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	VerifyToken(ctx context.Context, token string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error)
	UpdateUser(ctx context.Context, id string, in models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// CredentialStore persists the token and user between runs.
type CredentialStore interface {
	Save(ctx context.Context, c persist.Credentials) error
	Load(ctx context.Context) (persist.Credentials, bool, error)
	Clear(ctx context.Context) error
}

type Store struct {
	api   AuthAPI
	creds CredentialStore
	log   logging.Logger
	now   func() time.Time

	mu        sync.Mutex
	state     State
	user      *models.User
	token     string
	err       string
	restored  bool
	expiresAt time.Time
	// epoch changes on every login and logout so that late results of
	// requests issued under an older session can be recognised.
	epoch uint64

	users        []models.User
	usersLoading bool
	usersErr     string
	usersSeq     uint64

	verifying singleflight.Group
}

func NewStore(a AuthAPI, creds CredentialStore, log logging.Logger) *Store {
	return &Store{
		api:   a,
		creds: creds,
		log:   log.With("component", "session"),
		now:   time.Now,
	}
}

// Snapshot copies the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Session {
	var u *models.User
	if s.user != nil {
		cp := *s.user
		u = &cp
	}
	return Session{
		User:            u,
		Token:           s.token,
		IsAuthenticated: s.user != nil && s.token != "",
		IsLoading:       s.state == Authenticating || s.state == Verifying,
		Error:           s.err,
		State:           s.state,
		Restored:        s.restored,
		ExpiresAt:       s.expiresAt,
	}
}

// tokenExpiry reads the exp claim without checking the signature. Opaque
// tokens have no expiry as far as the client can tell.
func tokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Initialize restores persisted credentials without touching the network.
// It only acts in the Anonymous state. Missing, corrupt or expired
// credentials leave the session anonymous; only storage I/O errors are
// returned.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Anonymous || s.token != "" {
		s.mu.Unlock()
		return nil
	}
	epoch := s.epoch
	s.mu.Unlock()

	c, found, err := s.creds.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	if !found {
		return nil
	}

	exp := tokenExpiry(c.Token)
	if !exp.IsZero() && !exp.After(s.now()) {
		s.log.Info(ctx, "stored token expired", "expired_at", exp)
		if err := s.creds.Clear(ctx); err != nil {
			s.log.Warn(ctx, "failed to clear expired credentials", "error", err)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Anonymous || s.epoch != epoch {
		return nil
	}
	user := c.User
	s.state = Authenticated
	s.user = &user
	s.token = c.Token
	s.expiresAt = exp
	s.restored = true
	s.err = ""
	s.log.Debug(ctx, "session restored", "user", user.Username)
	return nil
}

// Login authenticates with the server. Empty credentials are rejected
// before any request is made.
func (s *Store) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	s.mu.Lock()
	switch s.state {
	case Authenticating, Verifying:
		s.mu.Unlock()
		return ErrBusy
	case Authenticated:
		s.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	s.epoch++
	epoch := s.epoch
	s.state = Authenticating
	s.err = ""
	s.mu.Unlock()

	resp, err := s.api.Login(ctx, username, password)
	if err == nil && (resp.AccessToken == "" || resp.User.ID == "") {
		err = fmt.Errorf("%w: login response without token or user", api.ErrDecode)
	}

	// Credentials are written under the lock so a concurrent Logout can
	// never be undone by a late Save.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return ErrStale
	}

	msg := ""
	if err != nil {
		msg = apiMessage(err, msgLoginFailed)
	} else if err = s.creds.Save(ctx, persist.Credentials{Token: resp.AccessToken, User: resp.User}); err != nil {
		err = fmt.Errorf("failed to persist credentials: %w", err)
		msg = msgSaveFailed
	}

	if err != nil {
		s.state = Failed
		s.user = nil
		s.token = ""
		s.expiresAt = time.Time{}
		s.restored = false
		s.err = msg
		s.log.Warn(ctx, "login failed", "user", username, "error", err)
		return err
	}

	user := resp.User
	s.state = Authenticated
	s.user = &user
	s.token = resp.AccessToken
	s.expiresAt = tokenExpiry(resp.AccessToken)
	s.restored = false
	s.err = ""
	s.log.Info(ctx, "login succeeded", "user", user.Username)
	return nil
}

// Verify confirms the current token with the server. Concurrent calls for
// the same token share one request. On rejection or network failure the
// session is forcibly logged out and the persisted credentials removed.
func (s *Store) Verify(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.state == Authenticating:
		s.mu.Unlock()
		return ErrBusy
	case s.token == "":
		s.state = Anonymous
		s.user = nil
		s.err = msgNoToken
		s.mu.Unlock()
		return ErrNoToken
	}
	token := s.token
	epoch := s.epoch
	s.state = Verifying
	s.mu.Unlock()

	v, err, _ := s.verifying.Do(token, func() (any, error) {
		u, err := s.api.VerifyToken(ctx, token)
		if err == nil && (u == nil || u.ID == "") {
			err = fmt.Errorf("%w: verify response without user", api.ErrDecode)
		}
		return u, err
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return ErrStale
	}
	if s.state != Verifying {
		// A caller sharing this flight already applied the outcome.
		return err
	}

	if err != nil {
		s.state = Anonymous
		s.user = nil
		s.token = ""
		s.expiresAt = time.Time{}
		s.restored = false
		s.users = nil
		s.err = msgVerifyFailed
		if errors.Is(err, api.ErrUnavailable) {
			s.err = msgNetworkFailed
		}
		s.log.Warn(ctx, "token verification failed", "error", err)
		if cerr := s.creds.Clear(ctx); cerr != nil {
			s.log.Error(ctx, "failed to clear credentials", "error", cerr)
		}
		return err
	}

	user := *v.(*models.User)
	s.state = Authenticated
	s.user = &user
	s.restored = false
	s.err = ""
	if perr := s.creds.Save(ctx, persist.Credentials{Token: token, User: user}); perr != nil {
		s.log.Warn(ctx, "failed to refresh stored user", "error", perr)
	}
	return nil
}

// Logout always ends in Anonymous. Failing to clear local storage is
// logged, not returned.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		s.verifying.Forget(s.token)
	}
	s.epoch++
	s.state = Anonymous
	s.user = nil
	s.token = ""
	s.expiresAt = time.Time{}
	s.restored = false
	s.err = ""
	s.users = nil
	s.usersErr = ""
	s.usersLoading = false
	s.usersSeq++

	if err := s.creds.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear credentials", "error", err)
	}
}

// ClearError dismisses the current error message. A failed login returns
// to Anonymous.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
	if s.state == Failed {
		s.state = Anonymous
	}
}

// Token returns the bearer token held by the session, or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// apiMessage picks the user-facing line for a failed request: network
// failures read the same everywhere, HTTP errors show the server's detail
// when there is one.
func apiMessage(err error, fallback string) string {
	if errors.Is(err, api.ErrUnavailable) {
		return msgNetworkFailed
	}
	var re *api.RequestError
	if errors.As(err, &re) {
		return re.DetailOr(fallback)
	}
	return fallback
}
