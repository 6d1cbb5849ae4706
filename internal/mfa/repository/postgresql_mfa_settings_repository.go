// Package repository implements MFA settings persistence for PostgreSQL and
// MySQL. Method sets and backup code hash lists are stored as JSON columns.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/securekit/internal/database"
	apperrors "github.com/glowdesk/securekit/internal/errors"
	mfaDomain "github.com/glowdesk/securekit/internal/mfa/domain"
)

// PostgreSQLMFASettingsRepository implements MFASettings persistence for PostgreSQL.
type PostgreSQLMFASettingsRepository struct {
	db *sql.DB
}

// NewPostgreSQLMFASettingsRepository creates a new PostgreSQL MFASettings repository instance.
func NewPostgreSQLMFASettingsRepository(db *sql.DB) *PostgreSQLMFASettingsRepository {
	return &PostgreSQLMFASettingsRepository{db: db}
}

// Create inserts new MFA settings for a user.
func (p *PostgreSQLMFASettingsRepository) Create(ctx context.Context, settings *mfaDomain.MFASettings) error {
	querier := database.GetTx(ctx, p.db)

	methods, hashes, err := marshalSettings(settings)
	if err != nil {
		return err
	}

	query := `INSERT INTO mfa_settings
			  (id, user_id, methods, encrypted_totp_secret, encrypted_phone_number,
			   encrypted_email, backup_code_hashes, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		settings.ID,
		settings.UserID,
		methods,
		settings.EncryptedTOTPSecret,
		settings.EncryptedPhoneNumber,
		settings.EncryptedEmail,
		hashes,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create mfa settings")
	}
	return nil
}

// GetByUserID retrieves a user's MFA settings.
func (p *PostgreSQLMFASettingsRepository) GetByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*mfaDomain.MFASettings, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, methods, encrypted_totp_secret, encrypted_phone_number,
			  encrypted_email, backup_code_hashes, created_at, updated_at
			  FROM mfa_settings
			  WHERE user_id = $1
			  LIMIT 1`

	var settings mfaDomain.MFASettings
	var methods, hashes []byte
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&settings.ID,
		&settings.UserID,
		&methods,
		&settings.EncryptedTOTPSecret,
		&settings.EncryptedPhoneNumber,
		&settings.EncryptedEmail,
		&hashes,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get mfa settings by user id")
	}

	if err := unmarshalSettings(&settings, methods, hashes); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update persists changed MFA settings.
func (p *PostgreSQLMFASettingsRepository) Update(ctx context.Context, settings *mfaDomain.MFASettings) error {
	querier := database.GetTx(ctx, p.db)

	settings.UpdatedAt = time.Now().UTC()
	methods, hashes, err := marshalSettings(settings)
	if err != nil {
		return err
	}

	query := `UPDATE mfa_settings
			  SET methods = $1, encrypted_totp_secret = $2, encrypted_phone_number = $3,
			      encrypted_email = $4, backup_code_hashes = $5, updated_at = $6
			  WHERE id = $7`

	_, err = querier.ExecContext(
		ctx,
		query,
		methods,
		settings.EncryptedTOTPSecret,
		settings.EncryptedPhoneNumber,
		settings.EncryptedEmail,
		hashes,
		settings.UpdatedAt,
		settings.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update mfa settings")
	}
	return nil
}

// marshalSettings serializes the JSON columns.
func marshalSettings(settings *mfaDomain.MFASettings) (methods, hashes []byte, err error) {
	methods, err = json.Marshal(settings.Methods)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal mfa methods")
	}

	backupHashes := settings.BackupCodeHashes
	if backupHashes == nil {
		backupHashes = []string{}
	}
	hashes, err = json.Marshal(backupHashes)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal backup code hashes")
	}
	return methods, hashes, nil
}

// unmarshalSettings deserializes the JSON columns.
func unmarshalSettings(settings *mfaDomain.MFASettings, methods, hashes []byte) error {
	if err := json.Unmarshal(methods, &settings.Methods); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal mfa methods")
	}
	if err := json.Unmarshal(hashes, &settings.BackupCodeHashes); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal backup code hashes")
	}
	return nil
}
