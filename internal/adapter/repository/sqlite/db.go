// Package sqlite implements the domain repositories on an embedded
// SQLite database, for single-binary local deployments. Monetary values
// are stored as decimal strings and timestamps as unix nanoseconds, so
// no value ever passes through binary floating point.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
	path string
}

// NewDB opens (creating if needed) the SQLite database at path and runs
// the embedded migrations.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{DB: db, path: path}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
