package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// RedisStore implements Store using a Redis client.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client as a Store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Connect establishes a Redis connection from a URL (redis://host:port/db)
// and verifies it with a ping bounded by connectTimeout.
func Connect(ctx context.Context, url string, connectTimeout time.Duration) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse redis url")
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(err, "failed to ping redis")
	}

	return client, nil
}

// Set stores a value under key with the given TTL.
func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to set cache key")
	}
	return nil
}

// Get retrieves the value stored under key, mapping redis.Nil to ErrCacheMiss.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", apperrors.Wrap(err, "failed to get cache key")
	}
	return value, nil
}

// Del removes the value stored under key.
func (r *RedisStore) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, "failed to delete cache key")
	}
	return nil
}

// Incr atomically increments the counter stored under key.
func (r *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	value, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to increment cache key")
	}
	return value, nil
}
