package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"

	"mysql-backup-service/internal/domain"
)

const defaultPort = 3306

// Entry is one profile file found in the env directory. Err is set when the
// file was unreadable or failed validation; such entries become skipped
// results rather than aborting the run.
type Entry struct {
	Profile domain.Profile
	Source  string
	Err     error
}

// Store loads database profiles from a directory of .env files, one file per
// target.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads every *.env file in the store directory, in lexicographic order
// by filename so repeated runs produce comparably ordered reports. An
// unreadable directory is a ConfigError; a bad individual file only taints
// its own entry.
func (s *Store) Load() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &domain.ConfigError{Path: s.dir, Err: fmt.Errorf("failed to read profile directory: %w", err)}
	}

	var files []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".env") {
			continue
		}
		files = append(files, de.Name())
	}
	sort.Strings(files)

	entries := make([]Entry, 0, len(files))
	for _, name := range files {
		path := filepath.Join(s.dir, name)
		p, err := parseFile(path)
		entries = append(entries, Entry{Profile: p, Source: name, Err: err})
	}

	return entries, nil
}

func parseFile(path string) (domain.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to open profile: %w", err)
	}
	defer f.Close()

	vars, err := gotenv.StrictParse(f)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	port := defaultPort
	if raw := vars["DB_PORT"]; raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("invalid DB_PORT %q", raw)
		}
	}

	p := domain.Profile{
		Name:     vars["BACKUP_NAME"],
		Host:     vars["DB_HOST"],
		Port:     port,
		User:     vars["DB_USER"],
		Password: vars["DB_PASSWORD"],
		Database: vars["DB_NAME"],
		Source:   filepath.Base(path),
	}
	if p.Name == "" {
		p.Name = fallbackName(path, p.Host, p.Database)
	}

	if err := p.Validate(); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// fallbackName builds a backup name when BACKUP_NAME is absent, matching the
// {filestem}_{host}_{database} convention.
func fallbackName(path, host, database string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if host == "" {
		host = "localhost"
	}
	if database == "" {
		database = "unknown"
	}
	return fmt.Sprintf("%s_%s_%s", stem, host, database)
}
