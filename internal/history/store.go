// Package history persists session results, one JSON file per session.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lox/pokertable/internal/fileutil"
)

// ErrNotFound is returned when a session has no stored record
var ErrNotFound = errors.New("history: session not found")

const (
	filePrefix = "session-"
	fileSuffix = ".json"
)

// Store reads and writes session records under a directory
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("history: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(id string) (string, error) {
	if id == "" || filepath.Base(id) != id || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("history: invalid session id %q", id)
	}
	return filepath.Join(s.dir, filePrefix+id+fileSuffix), nil
}

// Save writes the record, replacing any earlier version
func (s *Store) Save(rec *SessionRecord) error {
	path, err := s.path(rec.ID)
	if err != nil {
		return err
	}
	if err := fileutil.WriteJSONAtomic(path, rec, 0o644); err != nil {
		return fmt.Errorf("history: save %s: %w", rec.ID, err)
	}
	return nil
}

// Load reads the record for a session
func (s *Store) Load(id string) (*SessionRecord, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("history: load %s: %w", id, err)
	}

	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("history: decode %s: %w", id, err)
	}
	return &rec, nil
}

// List summarises every stored session, newest first
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("history: list %s: %w", s.dir, err)
	}

	var out []Summary
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		rec, err := s.Load(id)
		if err != nil {
			return nil, err
		}
		out = append(out, rec.summary())
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
