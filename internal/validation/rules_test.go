package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"user@example.com", true},
		{"user.name+tag@sub.example.co", true},
		{"invalid", false},
		{"@example.com", false},
		{"user@", false},
		{"user@example", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validation.Validate(tt.value, Email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPhoneE164(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"+14155550123", true},
		{"+5511987654321", true},
		{"14155550123", false},
		{"+0123456789", false},
		{"+1-415-555-0123", false},
		{"+123", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validation.Validate(tt.value, PhoneE164)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNumericCode(t *testing.T) {
	assert.NoError(t, validation.Validate("123456", NumericCode))
	assert.Error(t, validation.Validate("12345", NumericCode))
	assert.Error(t, validation.Validate("1234567", NumericCode))
	assert.Error(t, validation.Validate("12345a", NumericCode))
}

func TestBackupCode(t *testing.T) {
	assert.NoError(t, validation.Validate("a1b2-c3d4-e5f6-0718", BackupCode))
	assert.Error(t, validation.Validate("A1B2-C3D4-E5F6-0718", BackupCode))
	assert.Error(t, validation.Validate("a1b2c3d4e5f60718", BackupCode))
	assert.Error(t, validation.Validate("a1b2-c3d4-e5f6", BackupCode))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("value", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
	assert.Error(t, validation.Validate("", NotBlank))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		err := WrapValidationError(errors.New("field is invalid"))
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})
}
