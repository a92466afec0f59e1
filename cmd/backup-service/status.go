package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mysql-backup-service/internal/domain"
	"mysql-backup-service/internal/usecase"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last run and the state of the artifact directory",
	Long: `Read the persisted report of the last backup run and scan the local
artifact directory: totals, age distribution, and any files older than the
retention window. Performs no backup work and never modifies anything.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the status report as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Shutdown()

	report, err := application.Status(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printStatus(cmd, report)
	return nil
}

func printStatus(cmd *cobra.Command, report *usecase.StatusReport) {
	out := cmd.OutOrStdout()

	if report.LastRun == nil {
		fmt.Fprintln(out, "Last run:  none recorded")
	} else {
		fmt.Fprintf(out, "Last run:  %s (%s), %d succeeded, %d failed\n",
			report.LastRun.StartedAt.Format(time.RFC3339),
			report.LastRun.Outcome,
			report.LastRun.Succeeded(), report.LastRun.Failed())
		for _, res := range report.LastRun.Results {
			if res.Outcome == domain.OutcomeSuccess {
				continue
			}
			fmt.Fprintf(out, "  [%s] %s: %s\n", res.Outcome, res.Profile, res.Error)
		}
	}

	a := report.Artifacts
	fmt.Fprintf(out, "Artifacts: %d files, %s total\n", a.TotalBackups, usecase.FormatBytes(a.TotalSize))
	if a.OldestBackup != nil {
		fmt.Fprintf(out, "  oldest:  %s\n", a.OldestBackup.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  newest:  %s\n", a.NewestBackup.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(out, "  by age:  today %d, yesterday %d, this week %d, older %d\n",
		a.ByAge.Today, a.ByAge.Yesterday, a.ByAge.ThisWeek, a.ByAge.Older)

	if report.Retention.PolicyCompliant {
		fmt.Fprintf(out, "Retention: compliant (%d days)\n", report.Retention.RetentionDays)
		return
	}
	fmt.Fprintf(out, "Retention: %d file(s) exceed the %d-day window\n",
		len(report.Retention.Violations), report.Retention.RetentionDays)
	for _, v := range report.Retention.Violations {
		fmt.Fprintf(out, "  %s (%d days old)\n", v.Filename, v.AgeDays)
	}
}
