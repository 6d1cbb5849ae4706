package domain

import (
	apperrors "github.com/glowdesk/securekit/internal/errors"
)

var (
	// ErrAlreadyEnabled indicates the method is already enabled for the user.
	ErrAlreadyEnabled = apperrors.Wrap(apperrors.ErrConflict, "mfa method already enabled")

	// ErrNotConfigured indicates the method is not enabled or lacks the
	// contact configuration needed to use it.
	ErrNotConfigured = apperrors.Wrap(apperrors.ErrInvalidInput, "mfa method not configured")

	// ErrInvalidOrExpiredCode indicates a verification failed: wrong code,
	// expired code, or no code on file.
	ErrInvalidOrExpiredCode = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid or expired code")

	// ErrUnknownMethod indicates an unrecognized MFA method name.
	ErrUnknownMethod = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown mfa method")
)
