package database

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"mysql-backup-service/internal/domain"
)

// timestampLayout sorts lexicographically, so retention can order artifacts
// by name without reading file metadata.
const timestampLayout = "20060102_150405"

// MySQLDumper runs consistent logical dumps via mysqldump, streaming the
// output through the compressor straight into the destination artifact.
type MySQLDumper struct {
	compressor  domain.Compressor
	timeout     time.Duration
	pingTimeout time.Duration
	binary      string
}

func NewMySQL(comp domain.Compressor, timeout time.Duration) *MySQLDumper {
	return &MySQLDumper{
		compressor:  comp,
		timeout:     timeout,
		pingTimeout: 10 * time.Second,
		binary:      "mysqldump",
	}
}

// Ping verifies the target is reachable and accepts the profile's
// credentials before the dump is attempted.
func (m *MySQLDumper) Ping(ctx context.Context, p domain.Profile) error {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = p.Addr()
	cfg.DBName = p.Database
	cfg.Timeout = m.pingTimeout

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return &domain.ConnectionError{Profile: p.Name, Err: err}
	}

	db := sql.OpenDB(connector)
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, m.pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return &domain.ConnectionError{Profile: p.Name, Err: err}
	}
	return nil
}

// Dump exports the profile's database into
// {destDir}/{backup_name}_{timestamp}.sql.gz. On any failure, timeout
// included, the export process is terminated and the partial artifact is
// removed before the error is returned.
func (m *MySQLDumper) Dump(ctx context.Context, p domain.Profile, destDir string) (*domain.Artifact, error) {
	createdAt := time.Now()
	filename := fmt.Sprintf("%s_%s.sql%s", p.Name, createdAt.Format(timestampLayout), m.compressor.Extension())
	artifactPath := filepath.Join(destDir, filename)

	dumpCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(dumpCtx, m.binary, dumpCommand{profile: p}.args()...)
	cmd.Env = append(os.Environ(), "LC_ALL=C.UTF-8", "LANG=C.UTF-8")
	cmd.WaitDelay = 10 * time.Second

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &domain.DumpError{Profile: p.Name, Err: err}
	}

	out, err := os.Create(artifactPath)
	if err != nil {
		return nil, &domain.DumpError{Profile: p.Name, Err: fmt.Errorf("failed to create artifact: %w", err)}
	}

	gz, err := m.compressor.NewWriter(out)
	if err != nil {
		out.Close()
		os.Remove(artifactPath)
		return nil, &domain.DumpError{Profile: p.Name, Err: err}
	}

	if err := cmd.Start(); err != nil {
		gz.Close()
		out.Close()
		os.Remove(artifactPath)
		return nil, &domain.DumpError{Profile: p.Name, Err: fmt.Errorf("failed to start %s: %w", m.binary, err)}
	}

	written, copyErr := io.Copy(gz, stdout)
	waitErr := cmd.Wait()
	closeErr := gz.Close()
	if err := out.Close(); closeErr == nil {
		closeErr = err
	}

	if err := m.runError(dumpCtx, p, waitErr, copyErr, closeErr, written, stderr.Bytes()); err != nil {
		os.Remove(artifactPath)
		return nil, err
	}

	info, err := os.Stat(artifactPath)
	if err != nil {
		return nil, &domain.DumpError{Profile: p.Name, Err: fmt.Errorf("failed to stat artifact: %w", err)}
	}

	return &domain.Artifact{
		Profile:    p.Name,
		Filename:   filename,
		FilePath:   artifactPath,
		Size:       info.Size(),
		Compressed: true,
		CreatedAt:  createdAt,
	}, nil
}

func (m *MySQLDumper) runError(ctx context.Context, p domain.Profile, waitErr, copyErr, closeErr error, written int64, stderr []byte) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.DumpError{Profile: p.Name, Output: stderrTail(stderr), Err: domain.ErrDumpTimeout}
	}
	if waitErr != nil {
		return &domain.DumpError{Profile: p.Name, Output: stderrTail(stderr), Err: waitErr}
	}
	if copyErr != nil {
		return &domain.DumpError{Profile: p.Name, Err: fmt.Errorf("failed to write artifact: %w", copyErr)}
	}
	if closeErr != nil {
		return &domain.DumpError{Profile: p.Name, Err: fmt.Errorf("failed to finish artifact: %w", closeErr)}
	}
	if written == 0 {
		return &domain.DumpError{Profile: p.Name, Output: stderrTail(stderr), Err: errors.New("dump produced no data")}
	}
	return nil
}

// dumpCommand builds the mysqldump argv. Every value is passed as a discrete
// argument; nothing goes through a shell, so credential fields cannot carry
// extra options or commands.
type dumpCommand struct {
	profile domain.Profile
}

func (c dumpCommand) args() []string {
	p := c.profile
	args := []string{
		fmt.Sprintf("--host=%s", p.Host),
		fmt.Sprintf("--port=%d", p.Port),
		fmt.Sprintf("--user=%s", p.User),
	}
	if p.Password != "" {
		args = append(args, fmt.Sprintf("--password=%s", p.Password))
	}
	args = append(args,
		"--single-transaction",
		"--quick",
		"--lock-tables=false",
		"--routines",
		"--triggers",
		"--events",
		"--add-drop-database",
		"--databases",
		p.Database,
	)
	return args
}

// stderrTail keeps the last few hundred bytes of process stderr for the
// error detail without dragging megabytes of warnings into the report.
func stderrTail(b []byte) string {
	const max = 512
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
