// Package ratelimit implements fixed-window rate limiting for sensitive
// account operations, backed by the shared cache store.
package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glowdesk/securekit/internal/cache"
	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// ErrRateLimited indicates the operation exceeded its window limit. Callers
// should surface a cooldown message instead of retrying immediately.
var ErrRateLimited = errors.New("rate limit exceeded")

// Operation identifies a rate-limited operation type.
type Operation string

// Rate-limited operation types.
const (
	OpEnroll   Operation = "enroll"
	OpVerify   Operation = "verify"
	OpUnenroll Operation = "unenroll"
)

// Limit defines a fixed window: at most Max operations per Window.
type Limit struct {
	Max    int
	Window time.Duration
}

// Limiter gates operations with per-(user, operation) fixed windows.
type Limiter interface {
	// CheckAndIncrement counts one attempt. Returns ErrRateLimited when the
	// window is full; the counter is not incremented past the limit.
	CheckAndIncrement(ctx context.Context, op Operation, userID string) error

	// Reset clears the window for a (user, operation) pair.
	Reset(ctx context.Context, op Operation, userID string) error
}

// window is the serialized counter stored in the cache.
type window struct {
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expires_at"`
}

// cacheLimiter implements Limiter over a cache.Store. Cache failures fail
// open: an unavailable cache must not block account operations.
type cacheLimiter struct {
	store   cache.Store
	limits  map[Operation]Limit
	enforce bool
	logger  *slog.Logger
}

// NewCacheLimiter creates a Limiter with the given per-operation limits.
// When enforce is false every check passes, for test and dev environments.
func NewCacheLimiter(store cache.Store, limits map[Operation]Limit, enforce bool, logger *slog.Logger) Limiter {
	return &cacheLimiter{
		store:   store,
		limits:  limits,
		enforce: enforce,
		logger:  logger,
	}
}

func (c *cacheLimiter) key(op Operation, userID string) string {
	return fmt.Sprintf("ratelimit:%s:%s", op, userID)
}

// CheckAndIncrement counts one attempt within the fixed window.
func (c *cacheLimiter) CheckAndIncrement(ctx context.Context, op Operation, userID string) error {
	if !c.enforce {
		return nil
	}

	limit, ok := c.limits[op]
	if !ok {
		return nil
	}

	key := c.key(op, userID)
	now := time.Now().UTC()

	current, err := c.load(ctx, key)
	if err != nil {
		c.logger.Warn("rate limiter cache unavailable, failing open",
			slog.String("operation", string(op)),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if current == nil || now.After(current.ExpiresAt) {
		fresh := window{Count: 1, ExpiresAt: now.Add(limit.Window)}
		if err := c.save(ctx, key, fresh); err != nil {
			c.logger.Warn("rate limiter cache unavailable, failing open",
				slog.String("operation", string(op)),
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	if current.Count >= limit.Max {
		c.logger.Info("operation rate limited",
			slog.String("operation", string(op)),
			slog.String("user_id", userID),
			slog.Int("count", current.Count),
			slog.Time("window_expires_at", current.ExpiresAt),
		)
		return ErrRateLimited
	}

	current.Count++
	if err := c.save(ctx, key, *current); err != nil {
		c.logger.Warn("rate limiter cache unavailable, failing open",
			slog.String("operation", string(op)),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// Reset clears the window for a (user, operation) pair.
func (c *cacheLimiter) Reset(ctx context.Context, op Operation, userID string) error {
	return c.store.Del(ctx, c.key(op, userID))
}

// load returns the stored window, nil when absent.
func (c *cacheLimiter) load(ctx context.Context, key string) (*window, error) {
	value, err := c.store.Get(ctx, key)
	if err != nil {
		if apperrors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}

	var w window
	if err := json.Unmarshal([]byte(value), &w); err != nil {
		// Corrupt entry, restart the window.
		return nil, nil
	}
	return &w, nil
}

func (c *cacheLimiter) save(ctx context.Context, key string, w window) error {
	data, err := json.Marshal(w)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal rate limit window")
	}
	return c.store.Set(ctx, key, string(data), time.Until(w.ExpiresAt))
}
