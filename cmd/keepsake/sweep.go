package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/keepsake-io/keepsake"
	"github.com/keepsake-io/keepsake/config"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove orphaned objects from storage",
	Long: `Remove stored objects that no item record references.

Failed saves can leave a payload in the object store without a matching
record: the object was written, then the record insert failed. Those
objects are invisible to the API but still occupy storage. This command:
  1. Collects every storage key referenced by an item record
  2. Lists the objects actually present in storage
  3. Removes unreferenced objects older than the grace period

The grace period protects fresh uploads whose record write is still in
flight. Run this periodically to reclaim storage space.`,
	RunE: runSweep,
}

var sweepGracePeriod time.Duration

func init() {
	sweepCmd.Flags().DurationVar(&sweepGracePeriod, "grace-period", 0, "minimum object age before removal (overrides config)")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	gracePeriod := cfg.Sweep.GracePeriod
	if cmd.Flags().Changed("grace-period") {
		gracePeriod = sweepGracePeriod
	}

	db, err := connectDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err = db.Validate(ctx); err != nil {
		return fmt.Errorf("validate database schema: %w", err)
	}

	store, err := connectStorage(ctx, cfg)
	if err != nil {
		return err
	}

	service := keepsake.NewService(db.GetRepo(), store)

	slog.Info("starting sweep", "grace_period", gracePeriod)

	removed, err := service.Sweep(ctx, keepsake.SweepOptions{GracePeriod: gracePeriod})
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	slog.Info("sweep complete", "objects_removed", removed)
	return nil
}
