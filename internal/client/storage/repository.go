package storage

import (
	"context"
)

// Repository is a flat key/value store. Get returns (nil, nil) for a
// missing key. There is no operation wiping every key:
// independent streams own disjoint keys and clear only their own.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)
}
