package port

import (
	"context"
	"errors"
	"time"
)

// Cache is the minimal key-value contract used by the application.
// Implementations must be concurrency-safe. Values are strings so the port
// stays free of serialization concerns.
type Cache interface {
	// Get returns ErrMiss when key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value with ttl. Zero or negative ttl means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// ErrMiss signals a cache miss so callers can tell it apart from transport errors.
var ErrMiss = errors.New("cache: miss")
