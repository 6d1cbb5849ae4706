// Package usecase implements the account recovery code flows: batch
// generation, single-use verification, and remaining-count queries.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	recoveryDomain "github.com/glowdesk/securekit/internal/recovery/domain"
)

// DefaultCodeCount is the number of codes issued when the caller does not
// ask for a specific amount.
const DefaultCodeCount = 8

// RecoveryCodeRepository defines persistence for recovery codes.
type RecoveryCodeRepository interface {
	Create(ctx context.Context, code *recoveryDomain.RecoveryCode) error
	ListUnusedByUserID(ctx context.Context, userID uuid.UUID) ([]*recoveryDomain.RecoveryCode, error)
	MarkUsed(ctx context.Context, codeID uuid.UUID, usedAt time.Time) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	CountUnusedByUserID(ctx context.Context, userID uuid.UUID) (int, error)
}

// RecoveryCodeUseCase defines the recovery code operations.
type RecoveryCodeUseCase interface {
	// Generate replaces the user's recovery codes with count new ones and
	// returns the plaintext codes exactly once. Zero or negative count uses
	// DefaultCodeCount.
	Generate(ctx context.Context, userID uuid.UUID, count int) ([]string, error)

	// Verify consumes a recovery code. Returns true exactly once per code;
	// an unknown or already used code returns false without error.
	Verify(ctx context.Context, userID uuid.UUID, code string) (bool, error)

	// RemainingCount returns the number of unused codes, for warning users
	// running low.
	RemainingCount(ctx context.Context, userID uuid.UUID) (int, error)
}
