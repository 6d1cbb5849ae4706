// Package domain defines the account recovery code entity.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecoveryCode is a persisted single-use code. Only the SHA-256 hash is
// stored; the plaintext is shown to the user once at generation time.
// A code transitions used=false to true exactly once and never verifies
// again afterwards.
type RecoveryCode struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	CodeHash  string     `json:"-"`
	Used      bool       `json:"used"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// NewRecoveryCode creates an unused recovery code record.
func NewRecoveryCode(userID uuid.UUID, codeHash string) *RecoveryCode {
	return &RecoveryCode{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		CodeHash:  codeHash,
		Used:      false,
		CreatedAt: time.Now().UTC(),
	}
}
