// Package recent persists the user's recent location searches to a small JSON
// file shared between application instances.
package recent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Alessio-Matteucci/Terremeteo/internal/logging"
)

// MaxEntries caps the stored list; the oldest entry falls off when a new one
// would exceed it.
const MaxEntries = 8

// Entry is one remembered search.
type Entry struct {
	Name       string    `json:"name"`
	Admin1     string    `json:"admin1,omitempty"`
	Country    string    `json:"country,omitempty"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	SearchedAt time.Time `json:"searched_at"`
}

// Store reads and writes the recent-searches file. Every read checks the file
// modification time first, so entries added by another running instance show
// up without a restart.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *logging.Logger

	entries []Entry
	modTime time.Time
	size    int64
}

// DefaultPath returns the per-user location of the recent-searches file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "terremeteo", "recent_searches.json"), nil
}

// NewStore creates a store backed by the given file path. The file does not
// have to exist yet.
func NewStore(path string, logger *logging.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Add records a search at the head of the list. An existing entry with the
// same name (compared case-insensitively) is removed first, so re-searching a
// place moves it to the top instead of duplicating it.
func (s *Store) Add(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reloadLocked()

	if e.SearchedAt.IsZero() {
		e.SearchedAt = time.Now()
	}

	kept := make([]Entry, 0, len(s.entries)+1)
	kept = append(kept, e)
	for _, old := range s.entries {
		if strings.EqualFold(old.Name, e.Name) {
			continue
		}
		kept = append(kept, old)
	}
	if len(kept) > MaxEntries {
		kept = kept[:MaxEntries]
	}
	s.entries = kept

	return s.saveLocked()
}

// Entries returns the stored searches, newest first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reloadLocked()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// reloadLocked re-reads the file when its modification time or size changed
// since the last load. Size is checked too because modification times can be
// too coarse to catch two writes within the same tick. A missing file simply
// means no entries.
func (s *Store) reloadLocked() {
	info, err := os.Stat(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("stat recent searches file: %v", err)
		}
		s.entries = nil
		s.modTime = time.Time{}
		s.size = 0
		return
	}
	if info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("read recent searches file: %v", err)
		return
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt file is dropped rather than blocking new searches.
		s.logger.Warn("parse recent searches file: %v", err)
		entries = nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	s.entries = entries
	s.modTime = info.ModTime()
	s.size = info.Size()
}

// saveLocked writes the entries atomically: a temp file in the same directory
// renamed over the target, so a concurrent reader never sees a partial write.
func (s *Store) saveLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recent searches: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "recent_searches-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write recent searches: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace recent searches file: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil {
		s.modTime = info.ModTime()
		s.size = info.Size()
	}
	return nil
}
