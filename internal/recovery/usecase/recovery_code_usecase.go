package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/securekit/internal/database"
	recoveryDomain "github.com/glowdesk/securekit/internal/recovery/domain"
	recoveryService "github.com/glowdesk/securekit/internal/recovery/service"
)

// recoveryCodeUseCase implements RecoveryCodeUseCase.
type recoveryCodeUseCase struct {
	repository RecoveryCodeRepository
	txManager  database.TxManager
	logger     *slog.Logger
}

// NewRecoveryCodeUseCase creates a RecoveryCodeUseCase instance.
func NewRecoveryCodeUseCase(
	repository RecoveryCodeRepository,
	txManager database.TxManager,
	logger *slog.Logger,
) RecoveryCodeUseCase {
	return &recoveryCodeUseCase{
		repository: repository,
		txManager:  txManager,
		logger:     logger,
	}
}

// Generate replaces the user's recovery codes with a fresh batch. The delete
// and inserts run in one transaction so the user never observes a partial
// set.
func (r *recoveryCodeUseCase) Generate(ctx context.Context, userID uuid.UUID, count int) ([]string, error) {
	if count <= 0 {
		count = DefaultCodeCount
	}

	codes, err := recoveryService.GenerateCodes(count)
	if err != nil {
		return nil, err
	}

	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := r.repository.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		for _, code := range codes {
			record := recoveryDomain.NewRecoveryCode(userID, recoveryService.HashCode(code))
			if err := r.repository.Create(ctx, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("recovery codes generated",
		slog.String("user_id", userID.String()),
		slog.Int("count", count),
	)
	return codes, nil
}

// Verify consumes a recovery code. Every attempt is logged; the raw code
// never is.
func (r *recoveryCodeUseCase) Verify(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	unused, err := r.repository.ListUnusedByUserID(ctx, userID)
	if err != nil {
		return false, err
	}

	var matched *recoveryDomain.RecoveryCode
	for _, record := range unused {
		if recoveryService.VerifyCode(code, record.CodeHash) {
			matched = record
		}
	}

	if matched == nil {
		r.logger.Info("recovery code verification",
			slog.String("user_id", userID.String()),
			slog.String("status", "failure"),
		)
		return false, nil
	}

	if err := r.repository.MarkUsed(ctx, matched.ID, time.Now().UTC()); err != nil {
		return false, err
	}

	r.logger.Info("recovery code verification",
		slog.String("user_id", userID.String()),
		slog.String("status", "success"),
		slog.String("code_id", matched.ID.String()),
	)
	return true, nil
}

// RemainingCount returns the number of unused codes.
func (r *recoveryCodeUseCase) RemainingCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.repository.CountUnusedByUserID(ctx, userID)
}
