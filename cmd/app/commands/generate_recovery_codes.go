package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	recoveryUsecase "github.com/glowdesk/securekit/internal/recovery/usecase"
)

// RunGenerateRecoveryCodes issues a fresh batch of recovery codes for a user,
// replacing any existing codes, and writes the plaintext codes to the given
// writer. The codes are shown exactly once; only their hashes are stored.
func RunGenerateRecoveryCodes(
	ctx context.Context,
	useCase recoveryUsecase.RecoveryCodeUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userIDStr string,
	count int,
) error {
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	logger.Info("generating recovery codes",
		slog.String("user_id", userID.String()),
		slog.Int("count", count),
	)

	codes, err := useCase.Generate(ctx, userID, count)
	if err != nil {
		return fmt.Errorf("failed to generate recovery codes: %w", err)
	}

	fmt.Fprintln(writer, "Recovery codes (store them securely, they will not be shown again):")
	for _, code := range codes {
		fmt.Fprintf(writer, "  %s\n", code)
	}
	return nil
}
