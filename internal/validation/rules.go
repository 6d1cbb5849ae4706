// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/glowdesk/securekit/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// phoneRegex matches E.164-formatted phone numbers (+ followed by 8-15 digits)
	phoneRegex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

	// numericCodeRegex matches 6-digit one-time codes
	numericCodeRegex = regexp.MustCompile(`^\d{6}$`)

	// backupCodeRegex matches backup codes: 4 groups of 4 hex chars separated by dashes
	backupCodeRegex = regexp.MustCompile(`^[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// PhoneE164 validates phone numbers in E.164 format (e.g., +14155550123)
var PhoneE164 = validation.NewStringRuleWithError(
	func(s string) bool {
		return phoneRegex.MatchString(s)
	},
	validation.NewError("validation_phone_format", "must be a valid E.164 phone number"),
)

// NumericCode validates 6-digit one-time codes
var NumericCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return numericCodeRegex.MatchString(s)
	},
	validation.NewError("validation_numeric_code", "must be a 6-digit code"),
)

// BackupCode validates backup code format (xxxx-xxxx-xxxx-xxxx, lowercase hex)
var BackupCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return backupCodeRegex.MatchString(s)
	},
	validation.NewError("validation_backup_code", "must be a backup code in xxxx-xxxx-xxxx-xxxx format"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
