package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewAESGCM(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		cipher, err := NewAESGCM(testKey(t))
		require.NoError(t, err)
		assert.NotNil(t, cipher)
	})

	t.Run("invalid key sizes", func(t *testing.T) {
		for _, size := range []int{0, 16, 24, 31, 33, 64} {
			_, err := NewAESGCM(make([]byte, size))
			assert.Error(t, err, "size %d", size)
		}
	})
}

func TestAESGCM_RoundTrip(t *testing.T) {
	cipher, err := NewAESGCM(testKey(t))
	require.NoError(t, err)

	plaintexts := [][]byte{
		[]byte("hello world"),
		[]byte(""),
		[]byte("a"),
		make([]byte, 4096),
	}

	for _, plaintext := range plaintexts {
		ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
		require.NoError(t, err)
		assert.Len(t, nonce, 12)

		decrypted, err := cipher.Decrypt(ciphertext, nonce, nil)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestAESGCM_UniqueNonces(t *testing.T) {
	cipher, err := NewAESGCM(testKey(t))
	require.NoError(t, err)

	_, nonce1, err := cipher.Encrypt([]byte("data"), nil)
	require.NoError(t, err)
	_, nonce2, err := cipher.Encrypt([]byte("data"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, nonce1, nonce2)
}

func TestAESGCM_TamperDetection(t *testing.T) {
	cipher, err := NewAESGCM(testKey(t))
	require.NoError(t, err)

	ciphertext, nonce, err := cipher.Encrypt([]byte("sensitive data"), nil)
	require.NoError(t, err)

	// Flip one bit in every position, including the trailing auth tag
	for i := range ciphertext {
		tampered := make([]byte, len(ciphertext))
		copy(tampered, ciphertext)
		tampered[i] ^= 0x01

		_, err := cipher.Decrypt(tampered, nonce, nil)
		assert.Error(t, err, "bit flip at position %d must fail authentication", i)
	}
}

func TestAESGCM_AADMismatch(t *testing.T) {
	cipher, err := NewAESGCM(testKey(t))
	require.NoError(t, err)

	ciphertext, nonce, err := cipher.Encrypt([]byte("data"), []byte("user-123"))
	require.NoError(t, err)

	_, err = cipher.Decrypt(ciphertext, nonce, []byte("user-456"))
	assert.Error(t, err)

	plaintext, err := cipher.Decrypt(ciphertext, nonce, []byte("user-123"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), plaintext)
}

func TestAESGCM_WrongKey(t *testing.T) {
	cipher1, err := NewAESGCM(testKey(t))
	require.NoError(t, err)
	cipher2, err := NewAESGCM(testKey(t))
	require.NoError(t, err)

	ciphertext, nonce, err := cipher1.Encrypt([]byte("data"), nil)
	require.NoError(t, err)

	_, err = cipher2.Decrypt(ciphertext, nonce, nil)
	assert.Error(t, err)
}
