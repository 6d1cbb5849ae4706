package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/glowdesk/securekit/internal/crypto/domain"
	"github.com/glowdesk/securekit/internal/metrics"
)

// encryptionUseCaseWithMetrics decorates EncryptionUseCase with metrics instrumentation.
type encryptionUseCaseWithMetrics struct {
	next    EncryptionUseCase
	metrics metrics.BusinessMetrics
}

// NewEncryptionUseCaseWithMetrics wraps an EncryptionUseCase with metrics recording.
func NewEncryptionUseCaseWithMetrics(useCase EncryptionUseCase, m metrics.BusinessMetrics) EncryptionUseCase {
	return &encryptionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for encryption operations.
func (e *encryptionUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	plaintext []byte,
) (*cryptoDomain.EncryptedPayload, error) {
	start := time.Now()
	payload, err := e.next.Encrypt(ctx, plaintext)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "crypto", "encrypt", status)
	e.metrics.RecordDuration(ctx, "crypto", "encrypt", time.Since(start), status)

	return payload, err
}

// Decrypt records metrics for decryption operations.
func (e *encryptionUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	payload *cryptoDomain.EncryptedPayload,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.Decrypt(ctx, payload)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "crypto", "decrypt", status)
	e.metrics.RecordDuration(ctx, "crypto", "decrypt", time.Since(start), status)

	return plaintext, err
}

// Hash delegates without instrumentation, hashing is a local CPU-bound call.
func (e *encryptionUseCaseWithMetrics) Hash(secret string) (string, error) {
	return e.next.Hash(secret)
}

// Verify delegates without instrumentation.
func (e *encryptionUseCaseWithMetrics) Verify(secret, encoded string) bool {
	return e.next.Verify(secret, encoded)
}

// RotateKeys records metrics for key rotation operations.
func (e *encryptionUseCaseWithMetrics) RotateKeys(ctx context.Context) error {
	start := time.Now()
	err := e.next.RotateKeys(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "crypto", "rotate_keys", status)
	e.metrics.RecordDuration(ctx, "crypto", "rotate_keys", time.Since(start), status)

	return err
}
