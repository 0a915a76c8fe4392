package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jh3/pomo/internal/session"
)

const cacheFileName = "sessions.cache"

// Entry stores a decoded session with its file mtime
type Entry struct {
	ModTime time.Time
	Session session.Session
}

// Cache keeps decoded session records between runs. Records are never
// rewritten in place, so an unchanged mtime means an unchanged session.
type Cache struct {
	path    string
	entries map[string]Entry
	mu      sync.RWMutex
}

// DefaultDir returns the user cache directory for pomo
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "pomo")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "pomo")
}

// New creates or loads the cache stored in dir
func New(dir string) *Cache {
	c := &Cache{
		path:    filepath.Join(dir, cacheFileName),
		entries: make(map[string]Entry),
	}
	c.load()
	return c
}

func (c *Cache) load() {
	f, err := os.Open(c.path)
	if err != nil {
		return
	}
	defer f.Close()

	if err := gob.NewDecoder(f).Decode(&c.entries); err != nil {
		log.Debug().Err(err).Str("path", c.path).Msg("Discarding unreadable session cache")
		c.entries = make(map[string]Entry)
	}
}

// Path returns the cache file location
func (c *Cache) Path() string {
	return c.path
}

// Len returns the number of cached sessions
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Save persists the cache to disk
func (c *Cache) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(c.entries)
}

// Get retrieves a cached session if mtime matches
func (c *Cache) Get(path string, mtime time.Time) (session.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[path]
	if !ok {
		return session.Session{}, false
	}
	if !entry.ModTime.Equal(mtime) {
		return session.Session{}, false
	}
	return entry.Session, true
}

// Set stores a session in the cache
func (c *Cache) Set(path string, mtime time.Time, sess session.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = Entry{ModTime: mtime, Session: sess}
}

// Prune removes entries for files that no longer exist
func (c *Cache) Prune(validPaths map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.entries {
		if !validPaths[path] {
			delete(c.entries, path)
		}
	}
}

// Clear removes the cache file. A missing file is not an error.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
