// Package persist mirrors client state into the local database.
//
// Values are stored as JSON. A value that is missing or fails to decode is
// reported as absent; only storage I/O failures surface as errors.
// Two independent streams are built on top: credentials (token plus cached
// user) and the chat transcript. They use disjoint keys and neither can
// clear the other.
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/storage"
	"github.com/dmitrijs2005/knowledgekeeper/internal/logging"
)

type Adapter struct {
	repo storage.Repository
	log  logging.Logger
}

func NewAdapter(repo storage.Repository, log logging.Logger) *Adapter {
	return &Adapter{repo: repo, log: log}
}

func (a *Adapter) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return a.repo.Set(ctx, key, b)
}

// Load decodes the value under key into dst and reports whether it was
// present and well-formed.
func (a *Adapter) Load(ctx context.Context, key string, dst any) (bool, error) {
	b, err := a.repo.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		a.log.Warn(ctx, "ignoring malformed stored value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (a *Adapter) Clear(ctx context.Context, key string) error {
	return a.repo.Delete(ctx, key)
}
