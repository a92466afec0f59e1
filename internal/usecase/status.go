package usecase

import (
	"context"
	"time"

	"mysql-backup-service/internal/domain"
)

// Status assembles the health view for the `status` command: the last
// persisted run plus a fresh look at the artifact directory. It performs no
// backup work.
type Status struct {
	reports       *ReportStore
	store         ArtifactStore
	retentionDays int
	now           func() time.Time
}

func NewStatus(reports *ReportStore, store ArtifactStore, retentionDays int) *Status {
	return &Status{
		reports:       reports,
		store:         store,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

type AgeBuckets struct {
	Today     int `json:"today"`
	Yesterday int `json:"yesterday"`
	ThisWeek  int `json:"this_week"`
	Older     int `json:"older"`
}

type ArtifactSummary struct {
	TotalBackups int        `json:"total_backups"`
	TotalSize    int64      `json:"total_size"`
	OldestBackup *time.Time `json:"oldest_backup,omitempty"`
	NewestBackup *time.Time `json:"newest_backup,omitempty"`
	ByAge        AgeBuckets `json:"backups_by_age"`
}

type Violation struct {
	Filename string `json:"filename"`
	AgeDays  int    `json:"age_days"`
}

type RetentionCheck struct {
	PolicyCompliant bool        `json:"policy_compliant"`
	RetentionDays   int         `json:"retention_days"`
	Violations      []Violation `json:"violations,omitempty"`
}

type StatusReport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	LastRun     *domain.RunReport `json:"last_run,omitempty"`
	Artifacts   ArtifactSummary   `json:"artifacts"`
	Retention   RetentionCheck    `json:"retention"`
}

// Collect reads the last run report and scans the artifact directory.
// LastRun is nil when no run has been persisted yet.
func (s *Status) Collect(ctx context.Context) (*StatusReport, error) {
	report := &StatusReport{
		GeneratedAt: s.now(),
		Retention: RetentionCheck{
			PolicyCompliant: true,
			RetentionDays:   s.retentionDays,
		},
	}

	last, err := s.reports.Load()
	if err != nil {
		return nil, err
	}
	report.LastRun = last

	files, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := now.AddDate(0, 0, -s.retentionDays)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := now.AddDate(0, 0, -7)

	for _, name := range files {
		ts, err := extractTimestamp(name)
		if err != nil {
			continue
		}

		report.Artifacts.TotalBackups++
		if info, err := s.store.Stat(name); err == nil {
			report.Artifacts.TotalSize += info.Size()
		}

		tsCopy := ts
		if report.Artifacts.OldestBackup == nil || ts.Before(*report.Artifacts.OldestBackup) {
			report.Artifacts.OldestBackup = &tsCopy
		}
		if report.Artifacts.NewestBackup == nil || ts.After(*report.Artifacts.NewestBackup) {
			report.Artifacts.NewestBackup = &tsCopy
		}

		switch {
		case !ts.Before(today):
			report.Artifacts.ByAge.Today++
		case !ts.Before(yesterday):
			report.Artifacts.ByAge.Yesterday++
		case !ts.Before(weekAgo):
			report.Artifacts.ByAge.ThisWeek++
		default:
			report.Artifacts.ByAge.Older++
		}

		if ts.Before(cutoff) {
			report.Retention.PolicyCompliant = false
			report.Retention.Violations = append(report.Retention.Violations, Violation{
				Filename: name,
				AgeDays:  int(now.Sub(ts).Hours() / 24),
			})
		}
	}

	return report, nil
}
