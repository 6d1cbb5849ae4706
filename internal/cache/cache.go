// Package cache provides a key/value store with TTL semantics backed by Redis,
// with an in-memory implementation for development and tests. It holds the
// data-key cache, outstanding one-time codes, and rate-limit counters.
package cache

import (
	"context"
	"time"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// ErrCacheMiss indicates the requested key is absent or expired.
var ErrCacheMiss = apperrors.Wrap(apperrors.ErrNotFound, "cache miss")

// Store defines the key/value operations used by the application.
// All values auto-expire after their TTL; a TTL of zero means no expiry.
type Store interface {
	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get retrieves the value stored under key.
	// Returns ErrCacheMiss if the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Del removes the value stored under key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error

	// Incr atomically increments the integer value stored under key,
	// initializing it to 1 if absent, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}
