package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/securekit/internal/cache"
)

// failingStore simulates an unavailable cache backend.
type failingStore struct{}

func (f *failingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errors.New("cache down")
}

func (f *failingStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("cache down")
}

func (f *failingStore) Del(ctx context.Context, key string) error {
	return errors.New("cache down")
}

func (f *failingStore) Incr(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("cache down")
}

func newTestLimiter(store cache.Store, limits map[Operation]Limit, enforce bool) Limiter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCacheLimiter(store, limits, enforce, logger)
}

// TestCacheLimiter_CheckAndIncrement tests fixed-window counting.
func TestCacheLimiter_CheckAndIncrement(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_UnderLimit", func(t *testing.T) {
		limiter := newTestLimiter(cache.NewMemoryStore(), map[Operation]Limit{
			OpVerify: {Max: 5, Window: time.Minute},
		}, true)

		for i := 0; i < 5; i++ {
			require.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"))
		}
	})

	t.Run("Error_SixthCallLimited", func(t *testing.T) {
		limiter := newTestLimiter(cache.NewMemoryStore(), map[Operation]Limit{
			OpVerify: {Max: 5, Window: time.Minute},
		}, true)

		for i := 0; i < 5; i++ {
			require.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"))
		}

		err := limiter.CheckAndIncrement(ctx, OpVerify, "user-1")
		assert.ErrorIs(t, err, ErrRateLimited)

		// Staying limited does not grow the counter.
		err = limiter.CheckAndIncrement(ctx, OpVerify, "user-1")
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("Success_WindowReset", func(t *testing.T) {
		limiter := newTestLimiter(cache.NewMemoryStore(), map[Operation]Limit{
			OpEnroll: {Max: 1, Window: 30 * time.Millisecond},
		}, true)

		require.NoError(t, limiter.CheckAndIncrement(ctx, OpEnroll, "user-1"))
		assert.ErrorIs(t, limiter.CheckAndIncrement(ctx, OpEnroll, "user-1"), ErrRateLimited)

		time.Sleep(50 * time.Millisecond)

		assert.NoError(t, limiter.CheckAndIncrement(ctx, OpEnroll, "user-1"))
	})

	t.Run("Success_IndependentUsersAndOperations", func(t *testing.T) {
		limiter := newTestLimiter(cache.NewMemoryStore(), map[Operation]Limit{
			OpVerify:   {Max: 1, Window: time.Minute},
			OpUnenroll: {Max: 1, Window: time.Minute},
		}, true)

		require.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"))
		assert.ErrorIs(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"), ErrRateLimited)

		assert.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-2"))
		assert.NoError(t, limiter.CheckAndIncrement(ctx, OpUnenroll, "user-1"))
	})

	t.Run("Success_EnforcementDisabled", func(t *testing.T) {
		limiter := newTestLimiter(cache.NewMemoryStore(), map[Operation]Limit{
			OpVerify: {Max: 1, Window: time.Minute},
		}, false)

		for i := 0; i < 10; i++ {
			assert.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"))
		}
	})

	t.Run("Success_FailsOpenOnCacheError", func(t *testing.T) {
		limiter := newTestLimiter(&failingStore{}, map[Operation]Limit{
			OpVerify: {Max: 1, Window: time.Minute},
		}, true)

		for i := 0; i < 10; i++ {
			assert.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"))
		}
	})

	t.Run("Success_UnknownOperationNotLimited", func(t *testing.T) {
		limiter := newTestLimiter(cache.NewMemoryStore(), map[Operation]Limit{}, true)
		assert.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"))
	})
}

// TestCacheLimiter_Reset tests window clearing.
func TestCacheLimiter_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ResetClearsWindow", func(t *testing.T) {
		limiter := newTestLimiter(cache.NewMemoryStore(), map[Operation]Limit{
			OpVerify: {Max: 1, Window: time.Minute},
		}, true)

		require.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"))
		assert.ErrorIs(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"), ErrRateLimited)

		require.NoError(t, limiter.Reset(ctx, OpVerify, "user-1"))

		assert.NoError(t, limiter.CheckAndIncrement(ctx, OpVerify, "user-1"))
	})
}
