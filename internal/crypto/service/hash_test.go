package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScryptHashService_HashVerify(t *testing.T) {
	hasher := NewScryptHashService()

	t.Run("verify matching secret", func(t *testing.T) {
		encoded, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.True(t, hasher.Verify("correct horse battery staple", encoded))
	})

	t.Run("reject wrong secret", func(t *testing.T) {
		encoded, err := hasher.Hash("secret-one")
		require.NoError(t, err)

		assert.False(t, hasher.Verify("secret-two", encoded))
	})

	t.Run("equal secrets produce different hashes", func(t *testing.T) {
		first, err := hasher.Hash("same secret")
		require.NoError(t, err)
		second, err := hasher.Hash("same secret")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, hasher.Verify("same secret", first))
		assert.True(t, hasher.Verify("same secret", second))
	})

	t.Run("encoding format is saltHex:derivedHex", func(t *testing.T) {
		encoded, err := hasher.Hash("secret")
		require.NoError(t, err)

		parts := strings.Split(encoded, ":")
		require.Len(t, parts, 2)
		assert.Len(t, parts[0], scryptSaltLen*2)
		assert.Len(t, parts[1], scryptKeyLen*2)
	})
}

func TestScryptHashService_VerifyMalformed(t *testing.T) {
	hasher := NewScryptHashService()

	for _, encoded := range []string{
		"",
		"no-separator",
		"one:two:three",
		"nothex:abcdef",
		"abcdef:nothex",
	} {
		assert.False(t, hasher.Verify("secret", encoded), "encoded=%q", encoded)
	}
}
