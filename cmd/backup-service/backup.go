package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mysql-backup-service/internal/domain"
	"mysql-backup-service/internal/usecase"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up every configured profile once",
	Long: `Run one full backup cycle: dump every profile in env_directory,
compress the dumps, replicate to any configured upload targets, enforce
retention, and send notifications.

Exits 0 when every profile succeeded, 1 when any backup failed, and 2 on a
configuration error.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func runBackup(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := application.Backup(ctx)
	if err != nil {
		return err
	}

	printRunSummary(cmd, report)

	if report.Outcome != domain.OutcomeSuccess {
		return errPartialFailure
	}
	return nil
}

func printRunSummary(cmd *cobra.Command, report *domain.RunReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Backup run finished in %s: %d succeeded, %d failed\n",
		report.Duration().Round(10*time.Millisecond), report.Succeeded(), report.Failed())

	for _, res := range report.Results {
		switch res.Outcome {
		case domain.OutcomeSuccess:
			fmt.Fprintf(out, "  [ok]      %-20s %s (%s)\n",
				res.Profile, res.Artifact.Filename, usecase.FormatBytes(res.Artifact.Size))
		case domain.OutcomeSkipped:
			fmt.Fprintf(out, "  [skipped] %-20s %s\n", res.Profile, res.Error)
		default:
			fmt.Fprintf(out, "  [failed]  %-20s %s\n", res.Profile, res.Error)
		}
	}

	if report.Retention != nil {
		fmt.Fprintf(out, "Retention: removed %d of %d files (%s freed)\n",
			report.Retention.FilesRemoved, report.Retention.FilesChecked,
			usecase.FormatBytes(report.Retention.SpaceFreed))
	}
}
