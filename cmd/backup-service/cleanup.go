package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mysql-backup-service/internal/usecase"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Enforce retention without running any backups",
	Long: `Delete local artifacts older than retention_days and mirror the
removal to any configured upload targets. Dumps nothing and sends no
notification; per-file failures are logged and the remaining files are
still processed.`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats := application.Cleanup(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Cleanup: removed %d of %d files (%s freed)\n",
		stats.FilesRemoved, stats.FilesChecked, usecase.FormatBytes(stats.SpaceFreed))
	for _, msg := range stats.Errors {
		fmt.Fprintf(cmd.OutOrStdout(), "  error: %s\n", msg)
	}
	return nil
}
