package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// MFASettings holds a user's multi-factor configuration. Secrets and contact
// details are stored envelope-encrypted; backup codes are stored as SHA-256
// hashes only.
type MFASettings struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	Methods              []Method  `json:"methods"`
	EncryptedTOTPSecret  string    `json:"-"`
	EncryptedPhoneNumber string    `json:"-"`
	EncryptedEmail       string    `json:"-"`
	BackupCodeHashes     []string  `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewMFASettings creates empty settings for a user.
func NewMFASettings(userID uuid.UUID) *MFASettings {
	now := time.Now().UTC()
	return &MFASettings{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Methods:   []Method{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasMethod reports whether the method is enabled.
func (m *MFASettings) HasMethod(method Method) bool {
	return slices.Contains(m.Methods, method)
}

// AddMethod enables a method. Returns ErrAlreadyEnabled when present.
func (m *MFASettings) AddMethod(method Method) error {
	if m.HasMethod(method) {
		return ErrAlreadyEnabled
	}
	m.Methods = append(m.Methods, method)
	return nil
}

// RemoveMethod disables a method and clears its configuration.
func (m *MFASettings) RemoveMethod(method Method) {
	m.Methods = slices.DeleteFunc(m.Methods, func(v Method) bool { return v == method })
	switch method {
	case MethodTOTP:
		m.EncryptedTOTPSecret = ""
	case MethodSMS:
		m.EncryptedPhoneNumber = ""
	case MethodEmail:
		m.EncryptedEmail = ""
	}
}

// RemoveBackupCodeHash deletes one stored hash by value. Returns true when
// the hash was present.
func (m *MFASettings) RemoveBackupCodeHash(hash string) bool {
	index := slices.Index(m.BackupCodeHashes, hash)
	if index < 0 {
		return false
	}
	m.BackupCodeHashes = slices.Delete(m.BackupCodeHashes, index, index+1)
	return true
}
