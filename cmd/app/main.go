// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/glowdesk/securekit/cmd/app/commands"
	"github.com/glowdesk/securekit/internal/app"
	"github.com/glowdesk/securekit/internal/config"
)

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Account security toolkit: field encryption, MFA and recovery codes",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "rotate-data-key",
				Usage: "Rotate the data key used for field encryption",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer commands.CloseContainer(container, logger)

					useCase, err := container.EncryptionUseCase(ctx)
					if err != nil {
						return err
					}
					return commands.RunRotateDataKey(ctx, useCase, logger)
				},
			},
			{
				Name:  "generate-recovery-codes",
				Usage: "Generate a fresh batch of recovery codes for a user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "User ID (UUID) to issue codes for",
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"c"},
						Value:   0,
						Usage:   "Number of codes to issue (0 uses the default)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer commands.CloseContainer(container, logger)

					useCase, err := container.RecoveryCodeUseCase()
					if err != nil {
						return err
					}
					return commands.RunGenerateRecoveryCodes(
						ctx,
						useCase,
						logger,
						commands.DefaultIO().Writer,
						cmd.String("user-id"),
						cmd.Int("count"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
