package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/keepsake-io/keepsake/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the metadata tables and indexes",
	Long: `Run database migrations for the configured backend.

Creates the items table (or collection) and its indexes, then validates
the resulting schema. Safe to run repeatedly.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err = db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if err = db.Validate(ctx); err != nil {
		return fmt.Errorf("validate database schema: %w", err)
	}

	slog.Info("migration complete", "type", cfg.Database.Type)
	return nil
}
