// Package repository implements recovery code persistence for PostgreSQL
// and MySQL.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/securekit/internal/database"
	apperrors "github.com/glowdesk/securekit/internal/errors"
	recoveryDomain "github.com/glowdesk/securekit/internal/recovery/domain"
)

// PostgreSQLRecoveryCodeRepository implements RecoveryCode persistence for PostgreSQL.
type PostgreSQLRecoveryCodeRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecoveryCodeRepository creates a new PostgreSQL RecoveryCode repository instance.
func NewPostgreSQLRecoveryCodeRepository(db *sql.DB) *PostgreSQLRecoveryCodeRepository {
	return &PostgreSQLRecoveryCodeRepository{db: db}
}

// Create inserts a recovery code record.
func (p *PostgreSQLRecoveryCodeRepository) Create(ctx context.Context, code *recoveryDomain.RecoveryCode) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO recovery_codes (id, user_id, code_hash, used, created_at, used_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		code.ID,
		code.UserID,
		code.CodeHash,
		code.Used,
		code.CreatedAt,
		code.UsedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create recovery code")
	}
	return nil
}

// ListUnusedByUserID returns the user's unused codes, oldest first.
func (p *PostgreSQLRecoveryCodeRepository) ListUnusedByUserID(
	ctx context.Context,
	userID uuid.UUID,
) ([]*recoveryDomain.RecoveryCode, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, code_hash, used, created_at, used_at
			  FROM recovery_codes
			  WHERE user_id = $1 AND used = FALSE
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list recovery codes")
	}
	defer rows.Close()

	var codes []*recoveryDomain.RecoveryCode
	for rows.Next() {
		var code recoveryDomain.RecoveryCode
		if err := rows.Scan(
			&code.ID,
			&code.UserID,
			&code.CodeHash,
			&code.Used,
			&code.CreatedAt,
			&code.UsedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan recovery code")
		}
		codes = append(codes, &code)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate recovery codes")
	}

	return codes, nil
}

// MarkUsed flips a code to used with a timestamp. Only unused codes are
// updated, so a code can be consumed exactly once even under concurrent
// verification.
func (p *PostgreSQLRecoveryCodeRepository) MarkUsed(ctx context.Context, codeID uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE recovery_codes
			  SET used = TRUE, used_at = $1
			  WHERE id = $2 AND used = FALSE`

	result, err := querier.ExecContext(ctx, query, usedAt, codeID)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark recovery code used")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check recovery code update")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByUserID removes all of a user's recovery codes.
func (p *PostgreSQLRecoveryCodeRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM recovery_codes WHERE user_id = $1`

	_, err := querier.ExecContext(ctx, query, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete recovery codes")
	}
	return nil
}

// CountUnusedByUserID returns the number of unused codes for a user.
func (p *PostgreSQLRecoveryCodeRepository) CountUnusedByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM recovery_codes WHERE user_id = $1 AND used = FALSE`

	var count int
	if err := querier.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count recovery codes")
	}
	return count, nil
}
