package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/securekit/internal/cache"
	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
	cryptoRepository "github.com/glowdesk/securekit/internal/crypto/repository"
	cryptoService "github.com/glowdesk/securekit/internal/crypto/service"
)

const testKeyURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

func newTestUseCase(t *testing.T) EncryptionUseCase {
	t.Helper()
	ctx := context.Background()

	provider, err := cryptoService.NewKMSEnvelopeKeyProvider(ctx, testKeyURI)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Close() })

	keyStore := cryptoRepository.NewCacheKeyStore(cache.NewMemoryStore())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewEncryptionUseCase(
		keyStore,
		provider,
		cryptoService.NewAEADManager(),
		cryptoService.NewScryptHashService(),
		cryptoDomain.AESGCM,
		time.Hour,
		logger,
	)
}

// TestEncryptionUseCase_EncryptDecrypt tests the round trip through the use case.
func TestEncryptionUseCase_EncryptDecrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RoundTrip", func(t *testing.T) {
		useCase := newTestUseCase(t)
		plaintext := []byte("card ending 4242")

		payload, err := useCase.Encrypt(ctx, plaintext)
		require.NoError(t, err)
		assert.Equal(t, cryptoDomain.AESGCM, payload.Algorithm)
		assert.NotEqual(t, plaintext, payload.Ciphertext)
		assert.NotEmpty(t, payload.WrappedKey)

		decrypted, err := useCase.Decrypt(ctx, payload)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	})

	t.Run("Success_ReusesCurrentKey", func(t *testing.T) {
		useCase := newTestUseCase(t)

		first, err := useCase.Encrypt(ctx, []byte("first"))
		require.NoError(t, err)
		second, err := useCase.Encrypt(ctx, []byte("second"))
		require.NoError(t, err)

		assert.Equal(t, first.KeyID, second.KeyID)
		assert.NotEqual(t, first.Nonce, second.Nonce)
	})

	t.Run("Success_StringRoundTrip", func(t *testing.T) {
		useCase := newTestUseCase(t)

		payload, err := useCase.Encrypt(ctx, []byte("+5511999998888"))
		require.NoError(t, err)

		parsed, err := cryptoDomain.ParseEncryptedPayload(payload.String())
		require.NoError(t, err)

		decrypted, err := useCase.Decrypt(ctx, &parsed)
		require.NoError(t, err)
		assert.Equal(t, []byte("+5511999998888"), decrypted)
	})

	t.Run("Error_TamperedCiphertext", func(t *testing.T) {
		useCase := newTestUseCase(t)

		payload, err := useCase.Encrypt(ctx, []byte("tamper me"))
		require.NoError(t, err)

		payload.Ciphertext[0] ^= 0x01

		decrypted, err := useCase.Decrypt(ctx, payload)
		assert.ErrorIs(t, err, cryptoDomain.ErrIntegrity)
		assert.Nil(t, decrypted)
	})

	t.Run("Error_TamperedWrappedKey", func(t *testing.T) {
		useCase := newTestUseCase(t)

		payload, err := useCase.Encrypt(ctx, []byte("tamper me"))
		require.NoError(t, err)

		payload.WrappedKey[len(payload.WrappedKey)-1] ^= 0x01

		decrypted, err := useCase.Decrypt(ctx, payload)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
		assert.Nil(t, decrypted)
	})
}

// TestEncryptionUseCase_RotateKeys tests key rotation behavior.
func TestEncryptionUseCase_RotateKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_OldPayloadsStayDecryptable", func(t *testing.T) {
		useCase := newTestUseCase(t)

		before, err := useCase.Encrypt(ctx, []byte("enrolled before rotation"))
		require.NoError(t, err)

		require.NoError(t, useCase.RotateKeys(ctx))

		after, err := useCase.Encrypt(ctx, []byte("enrolled after rotation"))
		require.NoError(t, err)
		assert.NotEqual(t, before.KeyID, after.KeyID)

		decrypted, err := useCase.Decrypt(ctx, before)
		require.NoError(t, err)
		assert.Equal(t, []byte("enrolled before rotation"), decrypted)
	})

	t.Run("Success_RotateWithoutExistingKey", func(t *testing.T) {
		useCase := newTestUseCase(t)
		assert.NoError(t, useCase.RotateKeys(ctx))
	})
}

// TestEncryptionUseCase_Hash tests the hashing facade.
func TestEncryptionUseCase_Hash(t *testing.T) {
	t.Run("Success_HashAndVerify", func(t *testing.T) {
		useCase := newTestUseCase(t)

		encoded, err := useCase.Hash("123456")
		require.NoError(t, err)
		assert.NotContains(t, encoded, "123456")

		assert.True(t, useCase.Verify("123456", encoded))
		assert.False(t, useCase.Verify("654321", encoded))
	})

	t.Run("Success_SaltedHashesDiffer", func(t *testing.T) {
		useCase := newTestUseCase(t)

		first, err := useCase.Hash("same secret")
		require.NoError(t, err)
		second, err := useCase.Hash("same secret")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}
