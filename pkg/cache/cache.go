package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a best-effort TTL cache. Implementations must be safe for
// concurrent use; callers must behave identically when every Get misses.
type Cache interface {
	// Get returns the raw value for key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for the backend's configured TTL.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
