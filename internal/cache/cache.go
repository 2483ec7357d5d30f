// Package cache stores recently fetched issue statuses for the shell prompt.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultTTL is how long a status stays fresh.
const DefaultTTL = 300 * time.Second

// Store maps issue keys to statuses.
type Store interface {
	Get(key string) (string, bool)
	Set(key, status string) error
}

// Entry is one cached status. Timestamp is unix seconds.
type Entry struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

// FileStore keeps entries in a JSON object on disk. The file is read and
// rewritten on every access without locking; unreadable or malformed
// content counts as empty. Stale entries are skipped, never deleted.
type FileStore struct {
	Path string
	TTL  time.Duration
	Now  func() time.Time

	mu     sync.Mutex
	hits   int64
	misses int64
}

// NewFileStore creates a store at path with DefaultTTL.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path, TTL: DefaultTTL, Now: time.Now}
}

func (s *FileStore) now() float64 {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return float64(now().UnixNano()) / float64(time.Second)
}

func (s *FileStore) ttl() float64 {
	if s.TTL <= 0 {
		return DefaultTTL.Seconds()
	}
	return s.TTL.Seconds()
}

func (s *FileStore) load() map[string]Entry {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return map[string]Entry{}
	}
	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return map[string]Entry{}
	}
	return entries
}

// Get returns a fresh status for key.
func (s *FileStore) Get(key string) (string, bool) {
	entry, ok := s.load()[key]
	fresh := ok && entry.Status != "" && s.now()-entry.Timestamp < s.ttl()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !fresh {
		s.misses++
		return "", false
	}
	s.hits++
	return entry.Status, true
}

// Set records status for key, keeping other entries.
func (s *FileStore) Set(key, status string) error {
	entries := s.load()
	entries[key] = Entry{Status: status, Timestamp: s.now()}

	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "encode prompt cache")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return errors.Wrap(err, "write prompt cache")
	}
	return nil
}

// Stats returns lookup counters for this process.
func (s *FileStore) Stats() (hits, misses int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses
}
