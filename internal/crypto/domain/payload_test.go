package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptedPayload_RoundTrip(t *testing.T) {
	original := EncryptedPayload{
		KeyID:      uuid.Must(uuid.NewV7()),
		Algorithm:  AESGCM,
		Nonce:      []byte("123456789012"),
		WrappedKey: []byte("wrapped-key-material"),
		Ciphertext: []byte("ciphertext-with-tag"),
	}

	parsed, err := ParseEncryptedPayload(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestEncryptedPayload_String(t *testing.T) {
	payload := EncryptedPayload{
		KeyID:     uuid.MustParse("0190a6c4-0000-7000-8000-000000000001"),
		Algorithm: ChaCha20,
	}

	serialized := payload.String()
	assert.True(t, strings.HasPrefix(serialized, "v1:0190a6c4-0000-7000-8000-000000000001:chacha20-poly1305:"))
}

func TestParseEncryptedPayload_Invalid(t *testing.T) {
	validID := uuid.Must(uuid.NewV7()).String()

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"too few parts", "v1:abc:def"},
		{"too many parts", "v1:a:b:c:d:e:f"},
		{"unknown version", "v2:" + validID + ":aes-gcm:AA==:AA==:AA=="},
		{"bad key id", "v1:not-a-uuid:aes-gcm:AA==:AA==:AA=="},
		{"bad algorithm", "v1:" + validID + ":des:AA==:AA==:AA=="},
		{"bad nonce base64", "v1:" + validID + ":aes-gcm:!!:AA==:AA=="},
		{"bad wrapped key base64", "v1:" + validID + ":aes-gcm:AA==:!!:AA=="},
		{"bad ciphertext base64", "v1:" + validID + ":aes-gcm:AA==:AA==:!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEncryptedPayload(tt.content)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("aes-gcm")
	require.NoError(t, err)
	assert.Equal(t, AESGCM, alg)

	alg, err = ParseAlgorithm("chacha20-poly1305")
	require.NoError(t, err)
	assert.Equal(t, ChaCha20, alg)

	_, err = ParseAlgorithm("des")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestDataKey_Expired(t *testing.T) {
	key := DataKey{
		CreatedAt: mustTime(t, "2026-01-01T00:00:00Z"),
		ExpiresAt: mustTime(t, "2026-01-02T00:00:00Z"),
	}

	assert.False(t, key.Expired(mustTime(t, "2026-01-01T12:00:00Z")))
	assert.True(t, key.Expired(mustTime(t, "2026-01-02T00:00:01Z")))
}

func TestDataKey_EncodeExcludesPlaintext(t *testing.T) {
	key := DataKey{
		ID:         uuid.Must(uuid.NewV7()),
		WrappedKey: []byte("wrapped"),
		Key:        []byte("super-secret-plaintext-key-bytes"),
		CreatedAt:  mustTime(t, "2026-01-01T00:00:00Z"),
		ExpiresAt:  mustTime(t, "2026-01-02T00:00:00Z"),
	}

	encoded, err := key.Encode()
	require.NoError(t, err)
	assert.NotContains(t, encoded, "super-secret")

	decoded, err := DecodeDataKey(encoded)
	require.NoError(t, err)
	assert.Equal(t, key.ID, decoded.ID)
	assert.Equal(t, key.WrappedKey, decoded.WrappedKey)
	assert.Nil(t, decoded.Key)
}
