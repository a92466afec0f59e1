package domain

import "context"

// Dumper produces a consistent logical dump for one profile. Implementations
// own the dump timeout and must terminate the export process and remove any
// partial artifact before returning an error.
type Dumper interface {
	Dump(ctx context.Context, profile Profile, destDir string) (*Artifact, error)
	Ping(ctx context.Context, profile Profile) error
}
