package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"regexp"
	"time"
)

// Logger is the slice of the application logger the use cases need.
type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// ArtifactStore is the local artifact directory as the use cases see it.
type ArtifactStore interface {
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Stat(name string) (fs.FileInfo, error)
}

var timestampPattern = regexp.MustCompile(`(\d{8})_(\d{6})`)

// extractTimestamp reads the creation time embedded in an artifact filename.
// Files without a parsable timestamp are not artifacts and are never touched
// by retention.
func extractTimestamp(filename string) (time.Time, error) {
	matches := timestampPattern.FindStringSubmatch(filename)
	if len(matches) < 3 {
		return time.Time{}, fmt.Errorf("no timestamp in filename %q", filename)
	}
	// Artifacts are stamped with local time; parse in the same zone so ages
	// round-trip exactly.
	return time.ParseInLocation("20060102_150405", matches[1]+"_"+matches[2], time.Local)
}

// FormatBytes renders a size in human-readable binary units.
func FormatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
