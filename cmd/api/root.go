package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"elibrary/internal/config"
	"elibrary/internal/database"
	"elibrary/internal/database/migration"
	"elibrary/internal/logger"
)

func newRootCmd() *cobra.Command {
	var skipMigrate bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			return serve(cmd.Context(), cfg, newLogger(cfg), !skipMigrate)
		},
	}
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending schema migrations on startup")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			return migrateOnly(cmd.Context(), cfg, newLogger(cfg))
		},
	}

	root := &cobra.Command{
		Use:   "elibrary",
		Short: "Document library API",
		Long: `E-Library stores documents (uploaded files or metadata records),
their tags, comments and the users who uploaded them.

Without a subcommand the HTTP API is started.`,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	root.Flags().AddFlagSet(serveCmd.Flags())
	root.AddCommand(serveCmd, migrateCmd)
	return root
}

func newLogger(cfg *config.AppConfig) *slog.Logger {
	return logger.New(os.Stdout, cfg.Location(), cfg.LogLevel)
}

func migrateOnly(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return migration.EnsureMigrated(ctx, db, log, cfg.Database.Host)
}
