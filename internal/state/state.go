// Package state persists the watcher's cross-invocation counters and
// flags. The process is stateless between runs; this file is the only
// thing that survives.
package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"grands-buffets-watch/internal/models"
)

// Store loads and saves run state. Implementations must return usable
// defaults from Load no matter what is on disk.
type Store interface {
	Load() *models.RunState
	Save(*models.RunState) error
}

// DefaultPath resolves the state file location under the XDG state
// directory, falling back to the working directory.
func DefaultPath() string {
	path, err := xdg.StateFile(filepath.Join("grands-buffets-watch", "run_state.json"))
	if err != nil {
		return "run_state.json"
	}
	return path
}

// FileStore keeps run state in a JSON file. Concurrent invocations
// against the same file are not coordinated; the watcher is meant to be
// invoked one run at a time.
type FileStore struct {
	path string
	log  *zap.SugaredLogger
}

// NewFileStore creates a store at path, or at DefaultPath when empty.
func NewFileStore(path string, log *zap.SugaredLogger) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FileStore{path: path, log: log}
}

// Path returns the backing file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the state file. A missing file is the normal first-run
// case; a corrupt one is logged. Both yield zeroed defaults so an
// invocation can always proceed.
func (s *FileStore) Load() *models.RunState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warnf("⚠️ could not read state file %s: %v", s.path, err)
		}
		return &models.RunState{}
	}

	var st models.RunState
	if err := json.Unmarshal(data, &st); err != nil {
		s.log.Warnf("⚠️ corrupt state file %s, starting fresh: %v", s.path, err)
		return &models.RunState{}
	}
	return &st
}

// Save writes the state file atomically enough for a single writer.
// Callers treat a failed save as non-fatal.
func (s *FileStore) Save(st *models.RunState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Reset deletes the state file. This is how an operator re-arms the
// watcher after a find.
func (s *FileStore) Reset() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore is a Store for tests and embedded surfaces that do not
// want disk traffic.
type MemoryStore struct {
	state *models.RunState
}

func (m *MemoryStore) Load() *models.RunState {
	if m.state == nil {
		return &models.RunState{}
	}
	cp := *m.state
	return &cp
}

func (m *MemoryStore) Save(st *models.RunState) error {
	cp := *st
	m.state = &cp
	return nil
}
