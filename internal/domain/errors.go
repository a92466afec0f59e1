package domain

import (
	"errors"
	"fmt"
)

// ErrDumpTimeout marks a dump that exceeded its bound. It is always wrapped
// inside a DumpError; detect it with errors.Is.
var ErrDumpTimeout = errors.New("dump timed out")

// ConfigError is a fatal configuration problem: unreadable global config or
// profile directory. A malformed individual profile is not a ConfigError; it
// becomes a skipped RunResult for that profile only.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config error: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("config error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ConnectionError means the target was unreachable or rejected authentication
// before the dump was attempted.
type ConnectionError struct {
	Profile string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Profile, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// DumpError means the export process failed or exceeded its bound. Output
// carries the tail of the process stderr when available.
type DumpError struct {
	Profile string
	Output  string
	Err     error
}

func (e *DumpError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("dump of %s failed: %v: %s", e.Profile, e.Err, e.Output)
	}
	return fmt.Sprintf("dump of %s failed: %v", e.Profile, e.Err)
}

func (e *DumpError) Unwrap() error { return e.Err }

// RetentionError records a single artifact that could not be deleted. It is
// logged and aggregated, never fatal.
type RetentionError struct {
	Path string
	Err  error
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf("retention: cannot remove %s: %v", e.Path, e.Err)
}

func (e *RetentionError) Unwrap() error { return e.Err }

// DispatchError records a failed delivery on one notification channel. It
// never changes the run's own outcome.
type DispatchError struct {
	Channel string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("notify via %s failed: %v", e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
