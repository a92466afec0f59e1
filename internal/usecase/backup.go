package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"mysql-backup-service/internal/domain"
	"mysql-backup-service/internal/profile"
)

// ProfileLoader yields the ordered profile entries for one run.
type ProfileLoader interface {
	Load() ([]profile.Entry, error)
}

// UploadTarget is one remote destination successful artifacts are
// replicated to.
type UploadTarget struct {
	Name    string
	Storage domain.Storage
}

// Coordinator runs one full backup invocation:
// load profiles, dump each, enforce retention, notify, persist the report.
type Coordinator struct {
	profiles      ProfileLoader
	dumper        domain.Dumper
	destDir       string
	uploadTargets []UploadTarget
	cleanup       *Cleanup
	dispatcher    *Dispatcher
	reports       *ReportStore
	logger        Logger
	concurrency   int
	now           func() time.Time
}

// CoordinatorOptions wires the coordinator's collaborators. Dispatcher may
// be nil when notifications are disabled.
type CoordinatorOptions struct {
	Profiles      ProfileLoader
	Dumper        domain.Dumper
	DestDir       string
	UploadTargets []UploadTarget
	Cleanup       *Cleanup
	Dispatcher    *Dispatcher
	Reports       *ReportStore
	Logger        Logger
	Concurrency   int
}

func NewCoordinator(opts CoordinatorOptions) *Coordinator {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Coordinator{
		profiles:      opts.Profiles,
		dumper:        opts.Dumper,
		destDir:       opts.DestDir,
		uploadTargets: opts.UploadTargets,
		cleanup:       opts.Cleanup,
		dispatcher:    opts.Dispatcher,
		reports:       opts.Reports,
		logger:        opts.Logger,
		concurrency:   concurrency,
		now:           time.Now,
	}
}

// Run executes one invocation. The returned error is non-nil only for a
// global configuration failure before any profile was attempted; per-profile
// failures live inside the report. Every profile always gets exactly one
// RunResult, and retention runs regardless of dump outcomes.
func (c *Coordinator) Run(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{StartedAt: c.now()}

	entries, err := c.profiles.Load()
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		c.logger.Warnf("No database profiles configured")
	} else {
		c.logger.Infof("Found %d database profile(s)", len(entries))
	}

	// Workers write to distinct slots, so report order stays the profile
	// order no matter how dumps interleave.
	results := make([]domain.RunResult, len(entries))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, entry := range entries {
		if entry.Err != nil {
			now := c.now()
			results[i] = domain.RunResult{
				Profile:    strings.TrimSuffix(entry.Source, ".env"),
				Outcome:    domain.OutcomeSkipped,
				StartedAt:  now,
				FinishedAt: now,
				Error:      entry.Err.Error(),
			}
			c.logger.Warnf("Skipping profile %s: %v", entry.Source, entry.Err)
			continue
		}

		wg.Add(1)
		go func(i int, p domain.Profile) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = c.backupOne(ctx, p)
		}(i, entry.Profile)
	}
	wg.Wait()
	report.Results = results

	report.Retention = c.cleanup.Execute(ctx)
	report.Finalize(c.now())

	if c.dispatcher != nil {
		c.dispatcher.Dispatch(ctx, report)
	}

	if err := c.reports.Save(report); err != nil {
		c.logger.Errorf("Failed to persist run report: %v", err)
	}

	c.logger.Infof("Backup run completed in %s: %d/%d succeeded",
		report.Duration().Round(time.Second), report.Succeeded(), len(report.Results))
	return report, nil
}

func (c *Coordinator) backupOne(ctx context.Context, p domain.Profile) domain.RunResult {
	res := domain.RunResult{
		Profile:   p.Name,
		Host:      p.Addr(),
		Database:  p.Database,
		StartedAt: c.now(),
	}

	c.logger.Infof("[%s] Starting backup of %s on %s", p.Name, p.Database, p.Addr())

	if err := c.dumper.Ping(ctx, p); err != nil {
		c.logger.Errorf("[%s] %v", p.Name, err)
		res.Outcome = domain.OutcomeFailure
		res.Error = err.Error()
		res.FinishedAt = c.now()
		return res
	}

	artifact, err := c.dumper.Dump(ctx, p, c.destDir)
	if err != nil {
		c.logger.Errorf("[%s] %v", p.Name, err)
		res.Outcome = domain.OutcomeFailure
		res.Error = err.Error()
		res.FinishedAt = c.now()
		return res
	}

	c.logger.Infof("[%s] Backup completed: %s (%s)", p.Name, artifact.Filename, FormatBytes(artifact.Size))

	res.Outcome = domain.OutcomeSuccess
	res.Artifact = artifact
	res.Uploads = c.replicate(ctx, artifact)
	res.FinishedAt = c.now()
	return res
}

// replicate pushes the artifact to every upload target in parallel. Upload
// failures are recorded on the result but do not fail the backup.
func (c *Coordinator) replicate(ctx context.Context, artifact *domain.Artifact) []domain.UploadResult {
	if len(c.uploadTargets) == 0 {
		return nil
	}

	results := make([]domain.UploadResult, len(c.uploadTargets))
	var wg sync.WaitGroup

	for i, target := range c.uploadTargets {
		wg.Add(1)
		go func(i int, t UploadTarget) {
			defer wg.Done()

			results[i] = domain.UploadResult{Target: t.Name}
			if err := t.Storage.Upload(ctx, artifact.FilePath, artifact.Filename); err != nil {
				results[i].Error = err.Error()
				c.logger.Errorf("[%s] Failed to upload to %s: %v", artifact.Profile, t.Name, err)
				return
			}
			c.logger.Infof("[%s] Uploaded to %s", artifact.Profile, t.Name)
		}(i, target)
	}
	wg.Wait()
	return results
}
