package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/storage"
	"github.com/dmitrijs2005/knowledgekeeper/internal/dbx"
	"github.com/dmitrijs2005/knowledgekeeper/internal/logging"
)

const (
	keyToken = "session.token"
	keyUser  = "session.user"
)

// Credentials is the persisted pair restored on start-up.
type Credentials struct {
	Token string
	User  models.User
}

// CredentialStore keeps the token and the cached user together: both are
// written and removed in one transaction, and a half-present or corrupt
// record is treated as no record at all.
type CredentialStore struct {
	db  *sql.DB
	log logging.Logger
}

func NewCredentialStore(db *sql.DB, log logging.Logger) *CredentialStore {
	return &CredentialStore{db: db, log: log}
}

func (s *CredentialStore) Save(ctx context.Context, c Credentials) error {
	user, err := json.Marshal(c.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(c.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, user)
	})
}

// Load returns the stored credentials, or false when none are usable.
// An unusable record is cleared so it is not retried on every start.
func (s *CredentialStore) Load(ctx context.Context) (Credentials, bool, error) {
	repo := storage.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		return Credentials{}, false, err
	}

	var user models.User
	found, err := NewAdapter(repo, s.log).Load(ctx, keyUser, &user)
	if err != nil {
		return Credentials{}, false, err
	}

	switch {
	case len(token) == 0 && !found:
		return Credentials{}, false, nil
	case len(token) == 0 || !found || user.ID == "":
		s.log.Warn(ctx, "discarding incomplete stored credentials")
		if err := s.Clear(ctx); err != nil {
			s.log.Warn(ctx, "failed to clear stored credentials", "error", err)
		}
		return Credentials{}, false, nil
	}

	return Credentials{Token: string(token), User: user}, true, nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return storage.NewSQLiteRepository(tx).Delete(ctx, keyToken, keyUser)
	})
}

// Token implements api.TokenSource: the API client reads the bearer token
// from here on every request. A missing token is not an error.
func (s *CredentialStore) Token(ctx context.Context) (string, error) {
	b, err := storage.NewSQLiteRepository(s.db).Get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
