// Package repository implements data key caching on top of the cache store.
// Entries expire with the key's own validity window, so an expired cache
// entry and an expired key are the same condition.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/securekit/internal/cache"
	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
	apperrors "github.com/glowdesk/securekit/internal/errors"
)

const (
	keyPrefix    = "datakey:"
	currentIDKey = "datakey:current"
)

// CacheKeyStore implements the key store over a cache.Store. Only the
// envelope-wrapped key material is written; the plaintext key never reaches
// the cache.
type CacheKeyStore struct {
	store cache.Store
}

// NewCacheKeyStore creates a key store backed by the given cache.
func NewCacheKeyStore(store cache.Store) *CacheKeyStore {
	return &CacheKeyStore{store: store}
}

// Put stores a data key with a TTL equal to its remaining validity window.
// Keys already past their expiry are rejected.
func (c *CacheKeyStore) Put(ctx context.Context, key *cryptoDomain.DataKey) error {
	ttl := time.Until(key.ExpiresAt)
	if ttl <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "data key already expired")
	}

	encoded, err := key.Encode()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode data key")
	}

	if err := c.store.Set(ctx, keyPrefix+key.ID.String(), encoded, ttl); err != nil {
		return apperrors.Wrap(err, "failed to cache data key")
	}
	return nil
}

// Get retrieves a data key by id. Absent or expired entries return
// ErrKeyUnavailable.
func (c *CacheKeyStore) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.DataKey, error) {
	encoded, err := c.store.Get(ctx, keyPrefix+id.String())
	if err != nil {
		if apperrors.Is(err, cache.ErrCacheMiss) {
			return nil, cryptoDomain.ErrKeyUnavailable
		}
		return nil, apperrors.Wrap(err, "failed to read data key from cache")
	}

	key, err := cryptoDomain.DecodeDataKey(encoded)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode cached data key")
	}
	return key, nil
}

// CurrentID returns the id of the current data key, or ErrKeyUnavailable if
// no current key is set (or its pointer expired).
func (c *CacheKeyStore) CurrentID(ctx context.Context) (uuid.UUID, error) {
	value, err := c.store.Get(ctx, currentIDKey)
	if err != nil {
		if apperrors.Is(err, cache.ErrCacheMiss) {
			return uuid.Nil, cryptoDomain.ErrKeyUnavailable
		}
		return uuid.Nil, apperrors.Wrap(err, "failed to read current key id")
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(err, "failed to parse current key id")
	}
	return id, nil
}

// SetCurrentID atomically swaps the current-key pointer. The pointer expires
// with the key it references, forcing lazy regeneration afterwards.
func (c *CacheKeyStore) SetCurrentID(ctx context.Context, id uuid.UUID, ttl time.Duration) error {
	if err := c.store.Set(ctx, currentIDKey, id.String(), ttl); err != nil {
		return apperrors.Wrap(err, "failed to set current key id")
	}
	return nil
}
