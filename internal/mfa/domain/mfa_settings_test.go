package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseMethod tests method name parsing.
func TestParseMethod(t *testing.T) {
	t.Run("Success_KnownMethods", func(t *testing.T) {
		for _, name := range []string{"totp", "sms", "email"} {
			method, err := ParseMethod(name)
			require.NoError(t, err)
			assert.Equal(t, Method(name), method)
		}
	})

	t.Run("Error_UnknownMethod", func(t *testing.T) {
		_, err := ParseMethod("carrier-pigeon")
		assert.ErrorIs(t, err, ErrUnknownMethod)
	})
}

// TestMFASettings_Methods tests method toggling.
func TestMFASettings_Methods(t *testing.T) {
	t.Run("Success_AddMethod", func(t *testing.T) {
		settings := NewMFASettings(uuid.Must(uuid.NewV7()))

		require.NoError(t, settings.AddMethod(MethodTOTP))
		assert.True(t, settings.HasMethod(MethodTOTP))
		assert.False(t, settings.HasMethod(MethodSMS))
	})

	t.Run("Error_AddMethodTwice", func(t *testing.T) {
		settings := NewMFASettings(uuid.Must(uuid.NewV7()))

		require.NoError(t, settings.AddMethod(MethodSMS))
		assert.ErrorIs(t, settings.AddMethod(MethodSMS), ErrAlreadyEnabled)
	})

	t.Run("Success_RemoveMethodClearsConfiguration", func(t *testing.T) {
		settings := NewMFASettings(uuid.Must(uuid.NewV7()))
		require.NoError(t, settings.AddMethod(MethodTOTP))
		settings.EncryptedTOTPSecret = "v1:encrypted"

		settings.RemoveMethod(MethodTOTP)

		assert.False(t, settings.HasMethod(MethodTOTP))
		assert.Empty(t, settings.EncryptedTOTPSecret)
	})
}

// TestMFASettings_RemoveBackupCodeHash tests single-use hash removal.
func TestMFASettings_RemoveBackupCodeHash(t *testing.T) {
	settings := NewMFASettings(uuid.Must(uuid.NewV7()))
	settings.BackupCodeHashes = []string{"hash-a", "hash-b", "hash-c"}

	assert.True(t, settings.RemoveBackupCodeHash("hash-b"))
	assert.Equal(t, []string{"hash-a", "hash-c"}, settings.BackupCodeHashes)

	assert.False(t, settings.RemoveBackupCodeHash("hash-b"))
	assert.False(t, settings.RemoveBackupCodeHash("never-stored"))
}
