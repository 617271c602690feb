package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/persist"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

// Users copies the user-administration sub-state.
func (s *Store) Users() Users {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.User, len(s.users))
	copy(items, s.users)
	return Users{Items: items, IsLoading: s.usersLoading, Error: s.usersErr}
}

func (s *Store) ClearUsersError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersErr = ""
}

func (s *Store) requireAuth() error {
	if s.user == nil || s.token == "" {
		return common.ErrNotAuthenticated
	}
	return nil
}

// FetchUsers reloads the user list. A response that arrives after a newer
// fetch was issued is dropped.
func (s *Store) FetchUsers(ctx context.Context) error {
	s.mu.Lock()
	if err := s.requireAuth(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.usersSeq++
	seq := s.usersSeq
	s.usersLoading = true
	s.usersErr = ""
	s.mu.Unlock()

	users, err := s.api.ListUsers(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.usersSeq {
		return ErrStale
	}
	s.usersLoading = false
	if err != nil {
		s.usersErr = apiMessage(err, msgFetchUsers)
		return err
	}
	s.users = users
	return nil
}

// CreateUser adds an account and refreshes the list.
func (s *Store) CreateUser(ctx context.Context, in models.UserCreate) error {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	return s.userWrite(ctx, msgCreateUser, func() error {
		_, err := s.api.CreateUser(ctx, in)
		return err
	})
}

// UpdateUser changes an account. When the account is the signed-in user,
// the cached session user is replaced with the server's copy.
func (s *Store) UpdateUser(ctx context.Context, id string, in models.UserUpdate) error {
	if strings.TrimSpace(id) == "" || in.Empty() {
		return fmt.Errorf("%w: user id and at least one field are required", common.ErrValidation)
	}
	if in.Username != nil && strings.TrimSpace(*in.Username) == "" {
		return fmt.Errorf("%w: username cannot be blank", common.ErrValidation)
	}
	return s.userWrite(ctx, msgUpdateUser, func() error {
		u, err := s.api.UpdateUser(ctx, id, in)
		if err != nil {
			return err
		}
		s.refreshSelf(ctx, u)
		return nil
	})
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	return s.userWrite(ctx, msgDeleteUser, func() error {
		return s.api.DeleteUser(ctx, id)
	})
}

// userWrite runs one admin write and, on success, refetches the list. The
// session's own authentication is never touched here.
func (s *Store) userWrite(ctx context.Context, fallback string, call func() error) error {
	s.mu.Lock()
	if err := s.requireAuth(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.usersLoading = true
	s.usersErr = ""
	epoch := s.epoch
	s.mu.Unlock()

	if err := call(); err != nil {
		s.mu.Lock()
		if s.epoch == epoch {
			s.usersLoading = false
			s.usersErr = apiMessage(err, fallback)
		}
		s.mu.Unlock()
		return err
	}

	return s.FetchUsers(ctx)
}

func (s *Store) refreshSelf(ctx context.Context, u *models.User) {
	if u == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.user.ID != u.ID {
		return
	}
	updated := *u
	s.user = &updated
	if err := s.creds.Save(ctx, persist.Credentials{Token: s.token, User: updated}); err != nil {
		s.log.Warn(ctx, "failed to refresh stored user", "error", err)
	}
}
