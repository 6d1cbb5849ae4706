// Package domain defines the multi-factor authentication entities: per-user
// settings, supported methods, and the domain errors the MFA flows return.
package domain

import "fmt"

// Method identifies a multi-factor authentication method.
type Method string

// Supported MFA methods.
const (
	MethodTOTP  Method = "totp"
	MethodSMS   Method = "sms"
	MethodEmail Method = "email"
)

// ParseMethod converts a string to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodTOTP, MethodSMS, MethodEmail:
		return Method(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}
