package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/glowdesk/securekit/internal/cache"
	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
	cryptoUsecase "github.com/glowdesk/securekit/internal/crypto/usecase"
	apperrors "github.com/glowdesk/securekit/internal/errors"
	mfaDomain "github.com/glowdesk/securekit/internal/mfa/domain"
	mfaService "github.com/glowdesk/securekit/internal/mfa/service"
	"github.com/glowdesk/securekit/internal/notification"
	"github.com/glowdesk/securekit/internal/ratelimit"
	customValidation "github.com/glowdesk/securekit/internal/validation"
)

const (
	backupCodeCount = 10
	qrCodeSize      = 256
)

// mfaUseCase implements MFAUseCase.
type mfaUseCase struct {
	repository  MFASettingsRepository
	encryption  cryptoUsecase.EncryptionUseCase
	totpService *mfaService.TOTPService
	codeService *mfaService.CodeService
	codeStore   cache.Store
	codeTTL     time.Duration
	emailSender notification.EmailSender
	smsSender   notification.SMSSender
	limiter     ratelimit.Limiter
	logger      *slog.Logger
}

// NewMFAUseCase creates an MFAUseCase instance.
func NewMFAUseCase(
	repository MFASettingsRepository,
	encryption cryptoUsecase.EncryptionUseCase,
	totpService *mfaService.TOTPService,
	codeService *mfaService.CodeService,
	codeStore cache.Store,
	codeTTL time.Duration,
	emailSender notification.EmailSender,
	smsSender notification.SMSSender,
	limiter ratelimit.Limiter,
	logger *slog.Logger,
) MFAUseCase {
	return &mfaUseCase{
		repository:  repository,
		encryption:  encryption,
		totpService: totpService,
		codeService: codeService,
		codeStore:   codeStore,
		codeTTL:     codeTTL,
		emailSender: emailSender,
		smsSender:   smsSender,
		limiter:     limiter,
		logger:      logger,
	}
}

// Enable turns on a method for a user.
func (m *mfaUseCase) Enable(
	ctx context.Context,
	userID uuid.UUID,
	method mfaDomain.Method,
	accountName string,
) (*Enrollment, error) {
	if err := m.limiter.CheckAndIncrement(ctx, ratelimit.OpEnroll, userID.String()); err != nil {
		return nil, err
	}

	settings, created, err := m.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := settings.AddMethod(method); err != nil {
		return nil, err
	}

	var enrollment *Enrollment
	if method == mfaDomain.MethodTOTP {
		enrollment, err = m.enrollTOTP(ctx, settings, accountName)
		if err != nil {
			return nil, err
		}
	}

	if err := m.save(ctx, settings, created); err != nil {
		return nil, err
	}

	m.logger.Info("mfa method enabled",
		slog.String("user_id", userID.String()),
		slog.String("method", string(method)),
	)
	return enrollment, nil
}

// enrollTOTP generates the shared secret, encrypts it for storage, and
// builds the provisioning data returned to the user.
func (m *mfaUseCase) enrollTOTP(
	ctx context.Context,
	settings *mfaDomain.MFASettings,
	accountName string,
) (*Enrollment, error) {
	if err := validation.Validate(accountName, customValidation.NotBlank); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	secret, err := m.totpService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	encrypted, err := m.encryptString(ctx, secret)
	if err != nil {
		return nil, err
	}
	settings.EncryptedTOTPSecret = encrypted

	uri := m.totpService.ProvisioningURI(secret, accountName)
	png, err := m.totpService.QRCodePNG(uri, qrCodeSize)
	if err != nil {
		return nil, err
	}

	return &Enrollment{
		Secret:          secret,
		ProvisioningURI: uri,
		QRCodePNG:       png,
	}, nil
}

// Disable turns off a method.
func (m *mfaUseCase) Disable(ctx context.Context, userID uuid.UUID, method mfaDomain.Method) error {
	if err := m.limiter.CheckAndIncrement(ctx, ratelimit.OpUnenroll, userID.String()); err != nil {
		return err
	}

	settings, err := m.repository.GetByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return mfaDomain.ErrNotConfigured
		}
		return err
	}
	if !settings.HasMethod(method) {
		return mfaDomain.ErrNotConfigured
	}

	settings.RemoveMethod(method)
	if err := m.repository.Update(ctx, settings); err != nil {
		return err
	}

	_ = m.codeStore.Del(ctx, m.codeKey(userID, method))

	m.logger.Info("mfa method disabled",
		slog.String("user_id", userID.String()),
		slog.String("method", string(method)),
	)
	return nil
}

// SetPhoneNumber stores an encrypted phone number for sms delivery.
func (m *mfaUseCase) SetPhoneNumber(ctx context.Context, userID uuid.UUID, phoneNumber string) error {
	if err := validation.Validate(phoneNumber, customValidation.PhoneE164); err != nil {
		return customValidation.WrapValidationError(err)
	}
	return m.setContact(ctx, userID, func(settings *mfaDomain.MFASettings, encrypted string) {
		settings.EncryptedPhoneNumber = encrypted
	}, phoneNumber)
}

// SetEmail stores an encrypted email address for email delivery.
func (m *mfaUseCase) SetEmail(ctx context.Context, userID uuid.UUID, email string) error {
	if err := validation.Validate(email, customValidation.Email); err != nil {
		return customValidation.WrapValidationError(err)
	}
	return m.setContact(ctx, userID, func(settings *mfaDomain.MFASettings, encrypted string) {
		settings.EncryptedEmail = encrypted
	}, email)
}

func (m *mfaUseCase) setContact(
	ctx context.Context,
	userID uuid.UUID,
	assign func(*mfaDomain.MFASettings, string),
	value string,
) error {
	settings, created, err := m.loadOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	encrypted, err := m.encryptString(ctx, value)
	if err != nil {
		return err
	}
	assign(settings, encrypted)

	return m.save(ctx, settings, created)
}

// SendCode generates, stores, and dispatches a one-time code.
func (m *mfaUseCase) SendCode(ctx context.Context, userID uuid.UUID, method mfaDomain.Method) error {
	if method != mfaDomain.MethodSMS && method != mfaDomain.MethodEmail {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "one-time codes are only sent for sms and email methods")
	}

	settings, err := m.repository.GetByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return mfaDomain.ErrNotConfigured
		}
		return err
	}
	if !settings.HasMethod(method) {
		return mfaDomain.ErrNotConfigured
	}

	contact, err := m.contactFor(ctx, settings, method)
	if err != nil {
		return err
	}

	code, err := m.codeService.Generate()
	if err != nil {
		return err
	}
	hashed, err := m.codeService.Hash(code)
	if err != nil {
		return err
	}

	// Overwrites any outstanding code for this (user, method).
	if err := m.codeStore.Set(ctx, m.codeKey(userID, method), hashed, m.codeTTL); err != nil {
		return apperrors.Wrap(err, "failed to store one-time code")
	}

	if err := m.dispatch(ctx, method, contact, code); err != nil {
		return err
	}

	m.logger.Info("one-time code sent",
		slog.String("user_id", userID.String()),
		slog.String("method", string(method)),
	)
	return nil
}

// contactFor decrypts the contact configured for the method.
func (m *mfaUseCase) contactFor(
	ctx context.Context,
	settings *mfaDomain.MFASettings,
	method mfaDomain.Method,
) (string, error) {
	var encrypted string
	switch method {
	case mfaDomain.MethodSMS:
		encrypted = settings.EncryptedPhoneNumber
	case mfaDomain.MethodEmail:
		encrypted = settings.EncryptedEmail
	}
	if encrypted == "" {
		return "", mfaDomain.ErrNotConfigured
	}
	return m.decryptString(ctx, encrypted)
}

func (m *mfaUseCase) dispatch(ctx context.Context, method mfaDomain.Method, contact, code string) error {
	switch method {
	case mfaDomain.MethodSMS:
		return m.smsSender.SendSMS(ctx, notification.SMSMessage{
			To:   contact,
			Body: fmt.Sprintf("Your verification code is %s", code),
		})
	case mfaDomain.MethodEmail:
		return m.emailSender.SendEmail(ctx, notification.EmailMessage{
			To:      contact,
			Subject: "Your verification code",
			Body:    fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(m.codeTTL.Minutes())),
		})
	}
	return mfaDomain.ErrUnknownMethod
}

// VerifyCode checks a one-time or TOTP code.
func (m *mfaUseCase) VerifyCode(
	ctx context.Context,
	userID uuid.UUID,
	method mfaDomain.Method,
	code string,
) error {
	if err := m.limiter.CheckAndIncrement(ctx, ratelimit.OpVerify, userID.String()); err != nil {
		return err
	}

	if err := validation.Validate(code, customValidation.NumericCode); err != nil {
		return mfaDomain.ErrInvalidOrExpiredCode
	}

	settings, err := m.repository.GetByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return mfaDomain.ErrNotConfigured
		}
		return err
	}
	if !settings.HasMethod(method) {
		return mfaDomain.ErrNotConfigured
	}

	switch method {
	case mfaDomain.MethodTOTP:
		err = m.verifyTOTP(ctx, settings, code)
	case mfaDomain.MethodSMS, mfaDomain.MethodEmail:
		err = m.verifyOneTimeCode(ctx, userID, method, code)
	default:
		err = mfaDomain.ErrUnknownMethod
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	m.logger.Info("mfa code verification",
		slog.String("user_id", userID.String()),
		slog.String("method", string(method)),
		slog.String("status", status),
	)
	return err
}

func (m *mfaUseCase) verifyTOTP(ctx context.Context, settings *mfaDomain.MFASettings, code string) error {
	if settings.EncryptedTOTPSecret == "" {
		return mfaDomain.ErrNotConfigured
	}

	secret, err := m.decryptString(ctx, settings.EncryptedTOTPSecret)
	if err != nil {
		return err
	}

	if !m.totpService.Validate(secret, code) {
		return mfaDomain.ErrInvalidOrExpiredCode
	}
	return nil
}

func (m *mfaUseCase) verifyOneTimeCode(
	ctx context.Context,
	userID uuid.UUID,
	method mfaDomain.Method,
	code string,
) error {
	key := m.codeKey(userID, method)

	hashed, err := m.codeStore.Get(ctx, key)
	if err != nil {
		if apperrors.Is(err, cache.ErrCacheMiss) {
			return mfaDomain.ErrInvalidOrExpiredCode
		}
		return apperrors.Wrap(err, "failed to load one-time code")
	}

	if !m.codeService.Verify(code, hashed) {
		return mfaDomain.ErrInvalidOrExpiredCode
	}

	// Single use.
	_ = m.codeStore.Del(ctx, key)
	return nil
}

// GenerateBackupCodes issues a fresh backup code set.
func (m *mfaUseCase) GenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	settings, created, err := m.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	codes, err := m.codeService.GenerateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, err
	}

	hashes := make([]string, len(codes))
	for i, code := range codes {
		hashes[i] = mfaService.HashBackupCode(code)
	}
	settings.BackupCodeHashes = hashes

	if err := m.save(ctx, settings, created); err != nil {
		return nil, err
	}

	m.logger.Info("backup codes generated",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(codes)),
	)
	return codes, nil
}

// VerifyBackupCode consumes a backup code.
func (m *mfaUseCase) VerifyBackupCode(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	if err := m.limiter.CheckAndIncrement(ctx, ratelimit.OpVerify, userID.String()); err != nil {
		return false, err
	}

	settings, err := m.repository.GetByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	// Scan the whole list with constant-time compares so timing does not
	// reveal which entry matched.
	matched := ""
	for _, hash := range settings.BackupCodeHashes {
		if mfaService.VerifyBackupCode(code, hash) {
			matched = hash
		}
	}

	if matched == "" {
		m.logger.Info("backup code verification",
			slog.String("user_id", userID.String()),
			slog.String("status", "failure"),
		)
		return false, nil
	}

	settings.RemoveBackupCodeHash(matched)
	if err := m.repository.Update(ctx, settings); err != nil {
		return false, err
	}

	m.logger.Info("backup code verification",
		slog.String("user_id", userID.String()),
		slog.String("status", "success"),
	)
	return true, nil
}

func (m *mfaUseCase) codeKey(userID uuid.UUID, method mfaDomain.Method) string {
	return fmt.Sprintf("mfacode:%s:%s", userID, method)
}

// loadOrCreate returns the user's settings, creating an empty record in
// memory when none exists. The created flag tells save whether to insert.
func (m *mfaUseCase) loadOrCreate(ctx context.Context, userID uuid.UUID) (*mfaDomain.MFASettings, bool, error) {
	settings, err := m.repository.GetByUserID(ctx, userID)
	if err == nil {
		return settings, false, nil
	}
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return mfaDomain.NewMFASettings(userID), true, nil
	}
	return nil, false, err
}

func (m *mfaUseCase) save(ctx context.Context, settings *mfaDomain.MFASettings, created bool) error {
	if created {
		return m.repository.Create(ctx, settings)
	}
	return m.repository.Update(ctx, settings)
}

func (m *mfaUseCase) encryptString(ctx context.Context, value string) (string, error) {
	payload, err := m.encryption.Encrypt(ctx, []byte(value))
	if err != nil {
		return "", err
	}
	return payload.String(), nil
}

func (m *mfaUseCase) decryptString(ctx context.Context, encoded string) (string, error) {
	payload, err := cryptoDomain.ParseEncryptedPayload(encoded)
	if err != nil {
		return "", err
	}
	plaintext, err := m.encryption.Decrypt(ctx, &payload)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
