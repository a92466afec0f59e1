package domain

import "fmt"

// Profile is one configured database target, loaded from a single env file.
// It is immutable for the duration of a run.
type Profile struct {
	Name     string // logical backup name used in artifact filenames
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Source   string // env file the profile was loaded from
}

// Addr returns the host:port pair for the target server.
func (p Profile) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}

// Validate checks the fields every backend requires. Password is allowed to
// be empty for servers that accept passwordless auth.
func (p Profile) Validate() error {
	switch {
	case p.Host == "":
		return fmt.Errorf("DB_HOST is required")
	case p.Port <= 0 || p.Port > 65535:
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", p.Port)
	case p.User == "":
		return fmt.Errorf("DB_USER is required")
	case p.Database == "":
		return fmt.Errorf("DB_NAME is required")
	case p.Name == "":
		return fmt.Errorf("backup name is required")
	}
	return nil
}
