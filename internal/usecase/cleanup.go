package usecase

import (
	"context"
	"time"

	"mysql-backup-service/internal/domain"
)

// Cleanup enforces the retention horizon over the artifact directory and,
// best effort, over remote upload targets. It runs after every backup pass
// and on its own for `cleanup` invocations.
type Cleanup struct {
	store         ArtifactStore
	uploadTargets []UploadTarget
	retentionDays int
	logger        Logger
	now           func() time.Time
}

func NewCleanup(store ArtifactStore, uploadTargets []UploadTarget, retentionDays int, logger Logger) *Cleanup {
	return &Cleanup{
		store:         store,
		uploadTargets: uploadTargets,
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// Execute deletes every artifact whose embedded timestamp is strictly before
// now minus the retention horizon; an artifact exactly retentionDays old is
// retained. Deletion is best effort per file and the pass is idempotent.
// Errors are aggregated into the stats, never returned.
func (uc *Cleanup) Execute(ctx context.Context) *domain.RetentionStats {
	stats := &domain.RetentionStats{}
	cutoff := uc.now().AddDate(0, 0, -uc.retentionDays)

	uc.logger.Infof("Starting cleanup, retention: %d days", uc.retentionDays)

	files, err := uc.store.List(ctx)
	if err != nil {
		rerr := &domain.RetentionError{Path: ".", Err: err}
		uc.logger.Errorf("%v", rerr)
		stats.Errors = append(stats.Errors, rerr.Error())
		return stats
	}

	for _, name := range files {
		ts, err := extractTimestamp(name)
		if err != nil {
			continue
		}
		stats.FilesChecked++

		if !ts.Before(cutoff) {
			continue
		}

		info, statErr := uc.store.Stat(name)
		if err := uc.store.Delete(ctx, name); err != nil {
			rerr := &domain.RetentionError{Path: name, Err: err}
			uc.logger.Errorf("%v", rerr)
			stats.Errors = append(stats.Errors, rerr.Error())
			continue
		}

		stats.FilesRemoved++
		if statErr == nil {
			stats.SpaceFreed += info.Size()
		}
		uc.logger.Infof("Deleted old backup: %s", name)
	}

	uc.pruneTargets(ctx, cutoff)

	uc.logger.Infof("Cleanup completed: %d checked, %d removed, %s freed",
		stats.FilesChecked, stats.FilesRemoved, FormatBytes(stats.SpaceFreed))
	return stats
}

// pruneTargets mirrors the horizon onto remote destinations. Remote failures
// are logged only; the local stats stay authoritative.
func (uc *Cleanup) pruneTargets(ctx context.Context, cutoff time.Time) {
	for _, target := range uc.uploadTargets {
		old, err := target.Storage.GetOldFiles(ctx, cutoff)
		if err != nil {
			uc.logger.Errorf("Cleanup listing failed for %s: %v", target.Name, err)
			continue
		}

		deleted := 0
		for _, name := range old {
			if err := target.Storage.Delete(ctx, name); err != nil {
				uc.logger.Errorf("Failed to delete %s from %s: %v", name, target.Name, err)
				continue
			}
			deleted++
		}
		if len(old) > 0 {
			uc.logger.Infof("Deleted %d old backup(s) from %s", deleted, target.Name)
		}
	}
}
