package cachedRepo

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist.
// Any other error means the cache tier itself misbehaved; callers
// treat both the same way (recompute from source of truth).
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Close() error
}
