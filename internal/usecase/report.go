package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mysql-backup-service/internal/domain"
)

// ReportStore persists the last RunReport so a separate status process can
// read it without re-running backups. The coordinator is the only writer and
// writes exactly once per invocation.
type ReportStore struct {
	path string
}

func NewReportStore(path string) *ReportStore {
	return &ReportStore{path: path}
}

// Save writes the report atomically: a status reader never observes a
// half-written file.
func (s *ReportStore) Save(report *domain.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace run report: %w", err)
	}
	return nil
}

// Load reads the last persisted report. A missing file means no run has
// happened yet and is returned as (nil, nil).
func (s *ReportStore) Load() (*domain.RunReport, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run report: %w", err)
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}
	return &report, nil
}
