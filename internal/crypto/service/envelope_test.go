package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base64key:// keeper runs fully in-process, no external KMS required.
const testKeyURI = "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4="

func TestKMSEnvelopeKeyProvider_GenerateAndDecrypt(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKMSEnvelopeKeyProvider(ctx, testKeyURI)
	require.NoError(t, err)
	defer func() { _ = provider.Close() }()

	plaintextKey, wrappedKey, err := provider.GenerateDataKey(ctx)
	require.NoError(t, err)
	assert.Len(t, plaintextKey, 32)
	assert.NotEmpty(t, wrappedKey)
	assert.NotEqual(t, plaintextKey, wrappedKey)

	unwrapped, err := provider.DecryptDataKey(ctx, wrappedKey)
	require.NoError(t, err)
	assert.Equal(t, plaintextKey, unwrapped)
}

func TestKMSEnvelopeKeyProvider_UniqueKeys(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKMSEnvelopeKeyProvider(ctx, testKeyURI)
	require.NoError(t, err)
	defer func() { _ = provider.Close() }()

	key1, _, err := provider.GenerateDataKey(ctx)
	require.NoError(t, err)
	key2, _, err := provider.GenerateDataKey(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestKMSEnvelopeKeyProvider_DecryptGarbage(t *testing.T) {
	ctx := context.Background()

	provider, err := NewKMSEnvelopeKeyProvider(ctx, testKeyURI)
	require.NoError(t, err)
	defer func() { _ = provider.Close() }()

	_, err = provider.DecryptDataKey(ctx, []byte("not-a-wrapped-key"))
	assert.Error(t, err)
}

func TestNewKMSEnvelopeKeyProvider_InvalidURI(t *testing.T) {
	_, err := NewKMSEnvelopeKeyProvider(context.Background(), "bogus://nope")
	assert.Error(t, err)
}
