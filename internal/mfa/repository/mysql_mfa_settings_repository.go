package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/securekit/internal/database"
	apperrors "github.com/glowdesk/securekit/internal/errors"
	mfaDomain "github.com/glowdesk/securekit/internal/mfa/domain"
)

// MySQLMFASettingsRepository implements MFASettings persistence for MySQL.
type MySQLMFASettingsRepository struct {
	db *sql.DB
}

// NewMySQLMFASettingsRepository creates a new MySQL MFASettings repository instance.
func NewMySQLMFASettingsRepository(db *sql.DB) *MySQLMFASettingsRepository {
	return &MySQLMFASettingsRepository{db: db}
}

// Create inserts new MFA settings for a user.
func (m *MySQLMFASettingsRepository) Create(ctx context.Context, settings *mfaDomain.MFASettings) error {
	querier := database.GetTx(ctx, m.db)

	methods, hashes, err := marshalSettings(settings)
	if err != nil {
		return err
	}

	query := `INSERT INTO mfa_settings
			  (id, user_id, methods, encrypted_totp_secret, encrypted_phone_number,
			   encrypted_email, backup_code_hashes, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

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
func (m *MySQLMFASettingsRepository) GetByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*mfaDomain.MFASettings, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, methods, encrypted_totp_secret, encrypted_phone_number,
			  encrypted_email, backup_code_hashes, created_at, updated_at
			  FROM mfa_settings
			  WHERE user_id = ?
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
func (m *MySQLMFASettingsRepository) Update(ctx context.Context, settings *mfaDomain.MFASettings) error {
	querier := database.GetTx(ctx, m.db)

	settings.UpdatedAt = time.Now().UTC()
	methods, hashes, err := marshalSettings(settings)
	if err != nil {
		return err
	}

	query := `UPDATE mfa_settings
			  SET methods = ?, encrypted_totp_secret = ?, encrypted_phone_number = ?,
			      encrypted_email = ?, backup_code_hashes = ?, updated_at = ?
			  WHERE id = ?`

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
