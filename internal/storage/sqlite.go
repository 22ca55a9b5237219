// ABOUTME: SQLite slot backend
// ABOUTME: Provides local-only persistence using pure Go SQLite driver

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteDB implements Slot with a single key/value table.
type SQLiteDB struct {
	db   *sql.DB
	path string
}

// Compile-time check that SQLiteDB implements Slot.
var _ Slot = (*SQLiteDB)(nil)

// DefaultDBPath returns the SQLite database path inside dataDir.
func DefaultDBPath(dataDir string) string {
	return filepath.Join(dataDir, "tally.db")
}

// NewSQLiteDB opens the SQLite database at path.
// Creates the directory and database file if they don't exist.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteDB{db: db, path: path}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// migrate creates the schema.
func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file path.
func (s *SQLiteDB) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *SQLiteDB) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select slot: %w", err)
	}
	return value, nil
}

// Set upserts value under key.
func (s *SQLiteDB) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteDB) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM slots WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
