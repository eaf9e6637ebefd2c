package metadata

import (
	"context"
	"time"
)

// Item is one stored key with its last write time.
type Item struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// Repository is a small key/value store for client state that does not
// deserve its own table (the sealed session snapshot).
type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) (*Item, error)
	Set(ctx context.Context, key string, value []byte, at time.Time) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Item, error)
}
