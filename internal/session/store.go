package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// FileSuffix marks a file in the session directory as a session record
	FileSuffix = "-session.yaml"

	fileKeyLayout = "20060102150405"
)

// SessionCache is an interface for caching decoded sessions by file mtime
type SessionCache interface {
	Get(path string, mtime time.Time) (Session, bool)
	Set(path string, mtime time.Time, sess Session)
	Prune(validPaths map[string]bool)
}

// CorruptError reports a session file that could not be decoded
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt session file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the wall clock used by Create
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store reads and writes session records in a single directory.
// Every call is a full directory pass; nothing is kept between calls.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store for dir. The directory is not created.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the session directory
func (s *Store) Dir() string {
	return s.dir
}

// FileName returns the record file name for a session started at start.
// Two sessions started within the same second share a name; the later
// write replaces the earlier one.
func FileName(start time.Time) string {
	return start.UTC().Format(fileKeyLayout) + FileSuffix
}

// Create records a new session starting now
func (s *Store) Create(description string, duration time.Duration) (Session, error) {
	sess := Session{
		Description: description,
		Duration:    duration.Truncate(time.Second),
		Start:       s.now().UTC().Truncate(time.Second),
	}

	data, err := Encode(sess)
	if err != nil {
		return Session{}, err
	}

	path := filepath.Join(s.dir, FileName(sess.Start))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return Session{}, fmt.Errorf("failed to write session file: %w", err)
	}

	log.Debug().
		Str("path", path).
		Str("description", sess.Description).
		Dur("duration", sess.Duration).
		Msg("Session created")

	return sess, nil
}

// ListAll decodes every session record in the directory. The first record
// that fails to decode aborts the listing with a *CorruptError.
func (s *Store) ListAll() ([]Session, error) {
	files, err := s.findSessionFiles()
	if err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(files))
	for _, f := range files {
		sess, err := ReadFile(f.path)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// ListAllCached is ListAll, reusing cached sessions for unchanged files
func (s *Store) ListAllCached(cache SessionCache) ([]Session, error) {
	files, err := s.findSessionFiles()
	if err != nil {
		return nil, err
	}

	validPaths := make(map[string]bool, len(files))
	sessions := make([]Session, 0, len(files))
	for _, f := range files {
		validPaths[f.path] = true

		if cached, ok := cache.Get(f.path, f.modTime); ok {
			sessions = append(sessions, cached)
			continue
		}

		sess, err := ReadFile(f.path)
		if err != nil {
			return nil, err
		}
		cache.Set(f.path, f.modTime, sess)
		sessions = append(sessions, sess)
	}

	cache.Prune(validPaths)
	return sessions, nil
}

// ListActive returns the sessions still running at now
func (s *Store) ListActive(now time.Time) ([]Session, error) {
	sessions, err := s.ListAll()
	if err != nil {
		return nil, err
	}

	var active []Session
	for _, sess := range sessions {
		if sess.ActiveAt(now) {
			active = append(active, sess)
		}
	}
	return active, nil
}

// ReadFile decodes a single session record
func ReadFile(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	sess, err := Decode(data)
	if err != nil {
		return Session{}, &CorruptError{Path: path, Err: err}
	}
	return sess, nil
}

// IsSessionFile reports whether name carries the record suffix
func IsSessionFile(name string) bool {
	return strings.HasSuffix(name, FileSuffix)
}

type fileInfo struct {
	path    string
	modTime time.Time
}

func (s *Store) findSessionFiles() ([]fileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var files []fileInfo
	for _, e := range entries {
		if e.IsDir() || !IsSessionFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		files = append(files, fileInfo{
			path:    filepath.Join(s.dir, e.Name()),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}
