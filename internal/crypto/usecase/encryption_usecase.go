package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
	cryptoService "github.com/glowdesk/securekit/internal/crypto/service"
	apperrors "github.com/glowdesk/securekit/internal/errors"
)

// encryptionUseCase implements EncryptionUseCase.
//
// Current-key selection is check-then-act: read the current pointer, reuse
// the key if its TTL has not elapsed, otherwise generate a new one and swap
// the pointer. Concurrent creation within the process is deduplicated with
// singleflight; races across processes are tolerated (last writer sets the
// pointer) since every generated key remains independently decryptable.
type encryptionUseCase struct {
	keyStore    KeyStore
	provider    cryptoService.EnvelopeKeyProvider
	aeadManager cryptoService.AEADManager
	hasher      cryptoService.HashService
	algorithm   cryptoDomain.Algorithm
	keyTTL      time.Duration
	logger      *slog.Logger
	group       singleflight.Group
}

// NewEncryptionUseCase creates an EncryptionUseCase instance.
func NewEncryptionUseCase(
	keyStore KeyStore,
	provider cryptoService.EnvelopeKeyProvider,
	aeadManager cryptoService.AEADManager,
	hasher cryptoService.HashService,
	algorithm cryptoDomain.Algorithm,
	keyTTL time.Duration,
	logger *slog.Logger,
) EncryptionUseCase {
	return &encryptionUseCase{
		keyStore:    keyStore,
		provider:    provider,
		aeadManager: aeadManager,
		hasher:      hasher,
		algorithm:   algorithm,
		keyTTL:      keyTTL,
		logger:      logger,
	}
}

// Encrypt protects a plaintext under the current data key.
func (e *encryptionUseCase) Encrypt(
	ctx context.Context,
	plaintext []byte,
) (*cryptoDomain.EncryptedPayload, error) {
	key, plainKey, err := e.currentKey(ctx)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(plainKey)

	aead, err := e.aeadManager.CreateCipher(plainKey, e.algorithm)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt payload")
	}

	return &cryptoDomain.EncryptedPayload{
		KeyID:      key.ID,
		Algorithm:  e.algorithm,
		Nonce:      nonce,
		WrappedKey: key.WrappedKey,
		Ciphertext: ciphertext,
	}, nil
}

// Decrypt recovers the plaintext from a self-describing payload. The envelope
// key travels inside the payload, so decryption works even after the local
// key-cache entry has expired.
func (e *encryptionUseCase) Decrypt(
	ctx context.Context,
	payload *cryptoDomain.EncryptedPayload,
) ([]byte, error) {
	plainKey, err := e.provider.DecryptDataKey(ctx, payload.WrappedKey)
	if err != nil {
		e.logger.Error("failed to unwrap data key",
			slog.String("key_id", payload.KeyID.String()),
			slog.String("error", err.Error()),
		)
		return nil, cryptoDomain.ErrKeyUnavailable
	}
	defer cryptoDomain.Zero(plainKey)

	aead, err := e.aeadManager.CreateCipher(plainKey, payload.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(payload.Ciphertext, payload.Nonce, nil)
	if err != nil {
		e.logger.Warn("payload failed integrity check",
			slog.String("key_id", payload.KeyID.String()),
		)
		return nil, cryptoDomain.ErrIntegrity
	}

	return plaintext, nil
}

// Hash derives a salted slow hash of a secret.
func (e *encryptionUseCase) Hash(secret string) (string, error) {
	return e.hasher.Hash(secret)
}

// Verify checks a secret against a stored hash in constant time.
func (e *encryptionUseCase) Verify(secret, encoded string) bool {
	return e.hasher.Verify(secret, encoded)
}

// RotateKeys generates a new data key and swaps the current pointer.
func (e *encryptionUseCase) RotateKeys(ctx context.Context) error {
	oldID := uuid.Nil
	if id, err := e.keyStore.CurrentID(ctx); err == nil {
		oldID = id
	}

	key, plainKey, err := e.createKey(ctx)
	if err != nil {
		return err
	}
	cryptoDomain.Zero(plainKey)

	e.logger.Info("data key rotated",
		slog.String("old_key_id", oldID.String()),
		slog.String("new_key_id", key.ID.String()),
	)
	return nil
}

// currentKey returns the current data key and an unwrapped copy of its
// plaintext material, creating a new key when none is valid. The caller owns
// zeroing the returned plaintext.
func (e *encryptionUseCase) currentKey(ctx context.Context) (*cryptoDomain.DataKey, []byte, error) {
	if id, err := e.keyStore.CurrentID(ctx); err == nil {
		key, err := e.keyStore.Get(ctx, id)
		if err == nil && !key.Expired(time.Now().UTC()) {
			plainKey, err := e.provider.DecryptDataKey(ctx, key.WrappedKey)
			if err != nil {
				return nil, nil, cryptoDomain.ErrKeyUnavailable
			}
			return key, plainKey, nil
		}
	}

	key, plainKey, err := e.createKey(ctx)
	if err != nil {
		return nil, nil, err
	}
	return key, plainKey, nil
}

// createKey generates, caches and promotes a new data key. Concurrent callers
// within the process share one creation; each caller receives its own copy of
// the plaintext material.
func (e *encryptionUseCase) createKey(ctx context.Context) (*cryptoDomain.DataKey, []byte, error) {
	type created struct {
		key      *cryptoDomain.DataKey
		plainKey []byte
	}

	result, err, _ := e.group.Do("create-data-key", func() (any, error) {
		plainKey, wrappedKey, err := e.provider.GenerateDataKey(ctx)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to generate data key")
		}

		now := time.Now().UTC()
		key := &cryptoDomain.DataKey{
			ID:         uuid.Must(uuid.NewV7()),
			WrappedKey: wrappedKey,
			CreatedAt:  now,
			ExpiresAt:  now.Add(e.keyTTL),
		}

		if err := e.keyStore.Put(ctx, key); err != nil {
			cryptoDomain.Zero(plainKey)
			return nil, err
		}
		if err := e.keyStore.SetCurrentID(ctx, key.ID, e.keyTTL); err != nil {
			cryptoDomain.Zero(plainKey)
			return nil, err
		}

		e.logger.Info("data key created",
			slog.String("key_id", key.ID.String()),
			slog.Time("expires_at", key.ExpiresAt),
		)
		return created{key: key, plainKey: plainKey}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	c := result.(created)
	plainKeyCopy := make([]byte, len(c.plainKey))
	copy(plainKeyCopy, c.plainKey)
	return c.key, plainKeyCopy, nil
}
