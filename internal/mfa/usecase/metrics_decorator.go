package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/securekit/internal/metrics"
	mfaDomain "github.com/glowdesk/securekit/internal/mfa/domain"
)

// mfaUseCaseWithMetrics decorates MFAUseCase with metrics instrumentation.
type mfaUseCaseWithMetrics struct {
	next    MFAUseCase
	metrics metrics.BusinessMetrics
}

// NewMFAUseCaseWithMetrics wraps an MFAUseCase with metrics recording.
func NewMFAUseCaseWithMetrics(useCase MFAUseCase, m metrics.BusinessMetrics) MFAUseCase {
	return &mfaUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *mfaUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	d.metrics.RecordOperation(ctx, "mfa", operation, status)
	d.metrics.RecordDuration(ctx, "mfa", operation, time.Since(start), status)
}

// Enable records metrics for method enrollment.
func (d *mfaUseCaseWithMetrics) Enable(
	ctx context.Context,
	userID uuid.UUID,
	method mfaDomain.Method,
	accountName string,
) (*Enrollment, error) {
	start := time.Now()
	enrollment, err := d.next.Enable(ctx, userID, method, accountName)
	d.record(ctx, "enable", start, err)
	return enrollment, err
}

// Disable records metrics for method removal.
func (d *mfaUseCaseWithMetrics) Disable(ctx context.Context, userID uuid.UUID, method mfaDomain.Method) error {
	start := time.Now()
	err := d.next.Disable(ctx, userID, method)
	d.record(ctx, "disable", start, err)
	return err
}

// SetPhoneNumber records metrics for phone configuration.
func (d *mfaUseCaseWithMetrics) SetPhoneNumber(ctx context.Context, userID uuid.UUID, phoneNumber string) error {
	start := time.Now()
	err := d.next.SetPhoneNumber(ctx, userID, phoneNumber)
	d.record(ctx, "set_phone_number", start, err)
	return err
}

// SetEmail records metrics for email configuration.
func (d *mfaUseCaseWithMetrics) SetEmail(ctx context.Context, userID uuid.UUID, email string) error {
	start := time.Now()
	err := d.next.SetEmail(ctx, userID, email)
	d.record(ctx, "set_email", start, err)
	return err
}

// SendCode records metrics for code dispatch.
func (d *mfaUseCaseWithMetrics) SendCode(ctx context.Context, userID uuid.UUID, method mfaDomain.Method) error {
	start := time.Now()
	err := d.next.SendCode(ctx, userID, method)
	d.record(ctx, "send_code", start, err)
	return err
}

// VerifyCode records metrics for code verification.
func (d *mfaUseCaseWithMetrics) VerifyCode(
	ctx context.Context,
	userID uuid.UUID,
	method mfaDomain.Method,
	code string,
) error {
	start := time.Now()
	err := d.next.VerifyCode(ctx, userID, method, code)
	d.record(ctx, "verify_code", start, err)
	return err
}

// GenerateBackupCodes records metrics for backup code generation.
func (d *mfaUseCaseWithMetrics) GenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	start := time.Now()
	codes, err := d.next.GenerateBackupCodes(ctx, userID)
	d.record(ctx, "generate_backup_codes", start, err)
	return codes, err
}

// VerifyBackupCode records metrics for backup code verification.
func (d *mfaUseCaseWithMetrics) VerifyBackupCode(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) (bool, error) {
	start := time.Now()
	ok, err := d.next.VerifyBackupCode(ctx, userID, code)
	d.record(ctx, "verify_backup_code", start, err)
	return ok, err
}
