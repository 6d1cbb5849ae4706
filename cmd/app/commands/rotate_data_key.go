package commands

import (
	"context"
	"fmt"
	"log/slog"

	cryptoUsecase "github.com/glowdesk/securekit/internal/crypto/usecase"
)

// RunRotateDataKey generates a new data key and makes it the current key for
// all subsequent encryption. Existing payloads remain decryptable because each
// payload carries its own wrapped key.
//
// Rotation is recommended on a regular schedule or when suspecting key
// compromise. Requires KMS_KEY_URI to be set.
func RunRotateDataKey(ctx context.Context, useCase cryptoUsecase.EncryptionUseCase, logger *slog.Logger) error {
	logger.Info("rotating data key")

	if err := useCase.RotateKeys(ctx); err != nil {
		return fmt.Errorf("failed to rotate data key: %w", err)
	}

	logger.Info("data key rotated successfully")
	return nil
}
