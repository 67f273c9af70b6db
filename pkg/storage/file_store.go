package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/entrhq/rolodex/pkg/logging"
)

// FileStore implements Store using a JSON file.
type FileStore struct {
	path string
	log  *logging.Logger
	mu   sync.Mutex
}

// NewFileStore creates a new file-based snapshot store.
// If path is empty, defaults to ~/.rolodex/rolodex.json
func NewFileStore(path string, log *logging.Logger) (*FileStore, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath("rolodex.json"); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &FileStore{path: path, log: log}, nil
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot from disk. A missing file yields an empty
// snapshot and no error.
func (s *FileStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Infof("no snapshot at %s, starting empty", s.path)
			return Empty(), nil
		}
		return discard(s.log, s.path, err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return discard(s.log, s.path, err)
	}

	s.log.Debugf("loaded %d contacts and %d notes from %s", len(snap.Contacts), len(snap.Notes), s.path)
	return snap, nil
}

// Save writes the snapshot to disk.
func (s *FileStore) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Temp file in the same directory so the rename stays atomic
	tempPath := s.path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error {
	return nil
}
