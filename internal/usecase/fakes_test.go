package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"

	"mysql-backup-service/internal/domain"
	"mysql-backup-service/internal/profile"
)

// memStore is an in-memory ArtifactStore keyed by filename.
type memStore struct {
	mu        sync.Mutex
	files     map[string]int64
	deleteErr map[string]error
	listErr   error
}

func newMemStore(files map[string]int64) *memStore {
	if files == nil {
		files = map[string]int64{}
	}
	return &memStore{files: files, deleteErr: map[string]error{}}
}

func (s *memStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *memStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.deleteErr[name]; err != nil {
		return err
	}
	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("no such file: %s", name)
	}
	delete(s.files, name)
	return nil
}

func (s *memStore) Stat(name string) (fs.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	size, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", name)
	}
	return memFileInfo{name: name, size: size}, nil
}

type memFileInfo struct {
	name string
	size int64
}

func (f memFileInfo) Name() string       { return f.name }
func (f memFileInfo) Size() int64        { return f.size }
func (f memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() interface{}   { return nil }

// fakeRemote records replication calls for upload target assertions.
type fakeRemote struct {
	mu        sync.Mutex
	uploads   []string
	deleted   []string
	old       []string
	uploadErr error
}

func (r *fakeRemote) Upload(ctx context.Context, localPath, remoteName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.uploadErr != nil {
		return r.uploadErr
	}
	r.uploads = append(r.uploads, remoteName)
	return nil
}

func (r *fakeRemote) List(ctx context.Context) ([]string, error) { return nil, nil }

func (r *fakeRemote) Delete(ctx context.Context, remoteName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, remoteName)
	return nil
}

func (r *fakeRemote) GetOldFiles(ctx context.Context, cutoff time.Time) ([]string, error) {
	return r.old, nil
}

// fakeDumper scripts per-profile outcomes for coordinator tests.
type fakeDumper struct {
	mu       sync.Mutex
	pingErr  map[string]error
	dumpErr  map[string]error
	active   int
	peak     int
	attempts []string
}

func (d *fakeDumper) Ping(ctx context.Context, p domain.Profile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pingErr[p.Name]
}

func (d *fakeDumper) Dump(ctx context.Context, p domain.Profile, destDir string) (*domain.Artifact, error) {
	d.mu.Lock()
	d.attempts = append(d.attempts, p.Name)
	d.active++
	if d.active > d.peak {
		d.peak = d.active
	}
	err := d.dumpErr[p.Name]
	d.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	d.mu.Lock()
	d.active--
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &domain.Artifact{
		Profile:    p.Name,
		Filename:   p.Name + "_20250601_030000.sql.gz",
		FilePath:   destDir + "/" + p.Name + "_20250601_030000.sql.gz",
		Size:       1024,
		Compressed: true,
		CreatedAt:  time.Now(),
	}, nil
}

// staticProfiles implements ProfileLoader over a fixed entry list.
type staticProfiles struct {
	entries []profile.Entry
	err     error
}

func (s staticProfiles) Load() ([]profile.Entry, error) { return s.entries, s.err }

// fakeNotifier records deliveries.
type fakeNotifier struct {
	mu       sync.Mutex
	name     string
	err      error
	delay    time.Duration
	subjects []string
	messages []string
}

func (n *fakeNotifier) Name() string { return n.name }

func (n *fakeNotifier) Send(ctx context.Context, subject, message string) error {
	if n.delay > 0 {
		select {
		case <-time.After(n.delay):
		case <-ctx.Done():
			return &domain.DispatchError{Channel: n.name, Err: ctx.Err()}
		}
	}
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	n.messages = append(n.messages, message)
	return nil
}

// nopLogger satisfies Logger without output.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
