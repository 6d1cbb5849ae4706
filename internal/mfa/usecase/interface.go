// Package usecase implements the multi-factor authentication flows: method
// enrollment, one-time code delivery and verification, and backup codes.
package usecase

import (
	"context"

	"github.com/google/uuid"

	mfaDomain "github.com/glowdesk/securekit/internal/mfa/domain"
)

// MFASettingsRepository defines persistence for per-user MFA settings.
type MFASettingsRepository interface {
	Create(ctx context.Context, settings *mfaDomain.MFASettings) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*mfaDomain.MFASettings, error)
	Update(ctx context.Context, settings *mfaDomain.MFASettings) error
}

// Enrollment is returned once when TOTP is enabled. The secret and QR code
// are shown to the user for authenticator provisioning and never stored in
// plaintext.
type Enrollment struct {
	Secret          string
	ProvisioningURI string
	QRCodePNG       []byte
}

// MFAUseCase defines the multi-factor authentication operations.
type MFAUseCase interface {
	// Enable turns on a method for a user. For totp it generates the shared
	// secret and returns provisioning data exactly once; returns
	// ErrAlreadyEnabled when the method is already on.
	Enable(ctx context.Context, userID uuid.UUID, method mfaDomain.Method, accountName string) (*Enrollment, error)

	// Disable turns off a method and clears its configuration.
	Disable(ctx context.Context, userID uuid.UUID, method mfaDomain.Method) error

	// SetPhoneNumber stores the user's phone number, encrypted, for sms codes.
	SetPhoneNumber(ctx context.Context, userID uuid.UUID, phoneNumber string) error

	// SetEmail stores the user's email, encrypted, for email codes.
	SetEmail(ctx context.Context, userID uuid.UUID, email string) error

	// SendCode generates a one-time code for sms or email and dispatches it.
	// Only one code per (user, method) is outstanding; sending again
	// replaces the previous code.
	SendCode(ctx context.Context, userID uuid.UUID, method mfaDomain.Method) error

	// VerifyCode checks a code: against the TOTP algorithm for totp, against
	// the outstanding one-time code for sms/email. Successful sms/email
	// verification consumes the code.
	VerifyCode(ctx context.Context, userID uuid.UUID, method mfaDomain.Method, code string) error

	// GenerateBackupCodes issues a fresh set of backup codes, replacing any
	// previous set, and returns the plaintext codes exactly once.
	GenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error)

	// VerifyBackupCode consumes a backup code. Returns false when no stored
	// code matches.
	VerifyBackupCode(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}
