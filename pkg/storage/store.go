package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/entrhq/rolodex/pkg/logging"
	"github.com/entrhq/rolodex/pkg/types"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Store provides persistence for snapshots.
type Store interface {
	// Load reads the stored snapshot. It always returns a usable snapshot;
	// a non-nil error is a *types.PersistenceError describing a snapshot
	// that was missing its data or could not be decoded and was replaced
	// by an empty one.
	Load() (*Snapshot, error)

	// Save overwrites the stored snapshot.
	Save(s *Snapshot) error

	// Path returns the location of the underlying file.
	Path() string

	// Close releases resources held by the store.
	Close() error
}

// DefaultPath returns ~/.rolodex/<name>.
func DefaultPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".rolodex", name), nil
}

// Open creates the store for backend at path.
func Open(backend, path string, log *logging.Logger) (Store, error) {
	if log == nil {
		log = logging.Nop()
	}
	switch backend {
	case BackendJSON, "":
		return NewFileStore(path, log)
	case BackendSQLite:
		return NewSQLiteStore(path, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// decodeSnapshot parses a JSON payload and checks its version.
func decodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	return &s, nil
}

// discard logs a snapshot that could not be read and returns the empty
// replacement together with an informational error.
func discard(log *logging.Logger, path string, err error) (*Snapshot, error) {
	log.Warnf("discarding unreadable snapshot at %s: %v", path, err)
	return Empty(), &types.PersistenceError{Op: "load", Path: path, Err: err}
}
