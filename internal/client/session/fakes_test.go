package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/persist"
)

// fakeAPI is a scripted AuthAPI that records every call.
type fakeAPI struct {
	mu sync.Mutex

	loginCalls  int
	verifyCalls int
	lastLogin   [2]string
	lastVerify  string

	loginResp *models.LoginResponse
	loginErr  error

	verifyUser *models.User
	verifyErr  error
	// verifyGate, when set, blocks VerifyToken until closed.
	verifyGate chan struct{}
	// loginGate, when set, blocks Login until closed.
	loginGate chan struct{}
	// started receives a value every time a gated call starts.
	started chan struct{}

	users      []models.User
	usersErr   error
	listCalls  int
	created    []models.UserCreate
	createErr  error
	updated    map[string]models.UserUpdate
	updateResp *models.User
	updateErr  error
	deleted    []string
	deleteErr  error
}

func (f *fakeAPI) notifyStarted() {
	if f.started != nil {
		f.started <- struct{}{}
	}
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	f.mu.Lock()
	f.loginCalls++
	f.lastLogin = [2]string{username, password}
	gate := f.loginGate
	f.mu.Unlock()

	if gate != nil {
		f.notifyStarted()
		<-gate
	}
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	f.verifyCalls++
	f.lastVerify = token
	gate := f.verifyGate
	f.mu.Unlock()

	if gate != nil {
		f.notifyStarted()
		<-gate
	}
	return f.verifyUser, f.verifyErr
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.users, f.usersErr
}

func (f *fakeAPI) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	if f.createErr != nil {
		return nil, f.createErr
	}
	u := models.User{ID: "new-" + in.Username, Username: in.Username, IsActive: true}
	f.users = append(f.users, u)
	return &u, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id string, in models.UserUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[string]models.UserUpdate{}
	}
	f.updated[id] = in
	return f.updateResp, f.updateErr
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeAPI) counts() (login, verify int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.verifyCalls
}

// memCreds is an in-memory CredentialStore.
type memCreds struct {
	mu      sync.Mutex
	c       *persist.Credentials
	saves   int
	clears  int
	loadErr error
	saveErr error
	clrErr  error
}

func (m *memCreds) Save(_ context.Context, c persist.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := c
	m.c = &cp
	return nil
}

func (m *memCreds) Load(context.Context) (persist.Credentials, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return persist.Credentials{}, false, m.loadErr
	}
	if m.c == nil {
		return persist.Credentials{}, false, nil
	}
	return *m.c, true, nil
}

func (m *memCreds) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clrErr != nil {
		return m.clrErr
	}
	m.c = nil
	return nil
}

func (m *memCreds) stored() *persist.Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.c == nil {
		return nil
	}
	cp := *m.c
	return &cp
}

var errBoom = errors.New("boom")
