package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/securekit/internal/metrics"
)

// recoveryCodeUseCaseWithMetrics decorates RecoveryCodeUseCase with metrics instrumentation.
type recoveryCodeUseCaseWithMetrics struct {
	next    RecoveryCodeUseCase
	metrics metrics.BusinessMetrics
}

// NewRecoveryCodeUseCaseWithMetrics wraps a RecoveryCodeUseCase with metrics recording.
func NewRecoveryCodeUseCaseWithMetrics(useCase RecoveryCodeUseCase, m metrics.BusinessMetrics) RecoveryCodeUseCase {
	return &recoveryCodeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *recoveryCodeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	d.metrics.RecordOperation(ctx, "recovery", operation, status)
	d.metrics.RecordDuration(ctx, "recovery", operation, time.Since(start), status)
}

// Generate records metrics for batch generation.
func (d *recoveryCodeUseCaseWithMetrics) Generate(ctx context.Context, userID uuid.UUID, count int) ([]string, error) {
	start := time.Now()
	codes, err := d.next.Generate(ctx, userID, count)
	d.record(ctx, "generate", start, err)
	return codes, err
}

// Verify records metrics for code verification.
func (d *recoveryCodeUseCaseWithMetrics) Verify(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	start := time.Now()
	ok, err := d.next.Verify(ctx, userID, code)
	d.record(ctx, "verify", start, err)
	return ok, err
}

// RemainingCount records metrics for count queries.
func (d *recoveryCodeUseCaseWithMetrics) RemainingCount(ctx context.Context, userID uuid.UUID) (int, error) {
	start := time.Now()
	count, err := d.next.RemainingCount(ctx, userID)
	d.record(ctx, "remaining_count", start, err)
	return count, err
}
