package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get for missing or expired keys,
// regardless of backend.
var ErrKeyNotFound = errors.New("key not found")

// Cache is a string key/value store with per-entry TTLs. Production
// runs the Redis backend; tests and development use the in-memory one.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}
