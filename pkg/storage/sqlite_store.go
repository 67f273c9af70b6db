package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/rolodex/pkg/logging"
	_ "modernc.org/sqlite"
)

const createSnapshotTable = `
CREATE TABLE IF NOT EXISTS snapshot (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	version  INTEGER NOT NULL,
	payload  BLOB    NOT NULL,
	saved_at INTEGER NOT NULL
)`

// SQLiteStore keeps the snapshot as a single row of a SQLite database.
type SQLiteStore struct {
	path  string
	sqlDB *sql.DB
	log   *logging.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path. If path is
// empty, defaults to ~/.rolodex/rolodex.db. A file that is not a SQLite
// database is moved aside to <path>.corrupt and replaced by a fresh one.
func NewSQLiteStore(path string, log *logging.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		if path, err = DefaultPath("rolodex.db"); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = logging.Nop()
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	sqlDB, err := openSQLite(cleanPath)
	if err != nil {
		log.Warnf("moving unreadable database %s aside: %v", cleanPath, err)
		if renameErr := os.Rename(cleanPath, cleanPath+".corrupt"); renameErr != nil {
			return nil, fmt.Errorf("open sqlite db: %w", err)
		}
		if sqlDB, err = openSQLite(cleanPath); err != nil {
			return nil, fmt.Errorf("open sqlite db: %w", err)
		}
	}

	return &SQLiteStore{path: cleanPath, sqlDB: sqlDB, log: log}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(createSnapshotTable); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return sqlDB, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Load reads the snapshot row. An empty table yields an empty snapshot and
// no error.
func (s *SQLiteStore) Load() (*Snapshot, error) {
	if s == nil || s.sqlDB == nil {
		return Empty(), fmt.Errorf("storage is not configured")
	}

	var version int
	var payload []byte
	row := s.sqlDB.QueryRow(`SELECT version, payload FROM snapshot WHERE id = 1`)
	if err := row.Scan(&version, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log.Infof("no snapshot in %s, starting empty", s.path)
			return Empty(), nil
		}
		return discard(s.log, s.path, fmt.Errorf("read snapshot row: %w", err))
	}
	if version != SnapshotVersion {
		return discard(s.log, s.path, fmt.Errorf("unsupported snapshot version %d", version))
	}

	snap, err := decodeSnapshot(payload)
	if err != nil {
		return discard(s.log, s.path, err)
	}

	s.log.Debugf("loaded %d contacts and %d notes from %s", len(snap.Contacts), len(snap.Notes), s.path)
	return snap, nil
}

// Save upserts the snapshot row.
func (s *SQLiteStore) Save(snap *Snapshot) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.sqlDB.Exec(
		`INSERT INTO snapshot (id, version, payload, saved_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version, payload = excluded.payload, saved_at = excluded.saved_at`,
		snap.Version, payload, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write snapshot row: %w", err)
	}
	return nil
}

// Close releases the underlying SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
