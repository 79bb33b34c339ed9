package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or has expired. A miss is an
// expected outcome for the session resolver, not a failure.
var ErrMiss = errors.New("cache: key not found")

// Cache is the time-limited key/value store backing session tokens.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
