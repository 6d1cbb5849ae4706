package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
)

func TestAEADManager_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := testKey(t)

	t.Run("aes-gcm", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)
		assert.IsType(t, &AESGCMCipher{}, cipher)
	})

	t.Run("chacha20-poly1305", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		assert.IsType(t, &ChaCha20Poly1305Cipher{}, cipher)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(key, cryptoDomain.Algorithm("des"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestAEADManager_CiphersInteroperate(t *testing.T) {
	manager := NewAEADManager()
	key := testKey(t)

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			encryptor, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)
			decryptor, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			ciphertext, nonce, err := encryptor.Encrypt([]byte("round trip"), nil)
			require.NoError(t, err)

			plaintext, err := decryptor.Decrypt(ciphertext, nonce, nil)
			require.NoError(t, err)
			assert.Equal(t, []byte("round trip"), plaintext)
		})
	}
}
