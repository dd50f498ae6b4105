// Package storage persists solve attempts, their moves and phase splits in
// SQLite.
package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SeamusWaldron/rubik/internal/config"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

//go:embed migrations/*.sql
var migrationFS embed.FS

type migration struct {
	version int
	sql     string
}

// loadMigrations reads the embedded scripts. Each file is named NNN_*.sql
// and ReadDir returns them sorted, so versions come out ascending.
func loadMigrations() ([]migration, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	out := make([]migration, 0, len(entries))
	for _, e := range entries {
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("storage: migration %s has no version prefix", e.Name())
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("storage: migration %s: %w", e.Name(), err)
		}
		b, err := migrationFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, migration{version: v, sql: string(b)})
	}
	return out, nil
}

// DB wraps the SQLite database connection.
type DB struct {
	*sql.DB
	path string
}

// Open opens (or creates) the SQLite database at the given path and applies
// pending migrations. A leading ~ is expanded. ":memory:" opens a private
// in-memory database.
func Open(dbPath string) (*DB, error) {
	if dbPath != ":memory:" {
		dbPath = config.ExpandHome(dbPath)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// A single connection keeps ":memory:" databases and pragmas consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot enable foreign keys: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: cannot enable WAL mode: %w", err)
		}
	}

	d := &DB{DB: db, path: dbPath}
	if err := d.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// MigrateUp applies all pending migrations.
func (db *DB) MigrateUp() error {
	current, err := db.CurrentVersion()
	if err != nil {
		return err
	}
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := db.Transaction(func(tx *sql.Tx) error {
			_, err := tx.Exec(m.sql)
			return err
		}); err != nil {
			return fmt.Errorf("storage: cannot apply migration %d: %w", m.version, err)
		}
	}
	return nil
}

// CurrentVersion returns the current schema version.
func (db *DB) CurrentVersion() (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot check schema version table: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("storage: cannot read schema version: %w", err)
	}
	return version, nil
}

// Transaction executes fn within a database transaction.
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit transaction: %w", err)
	}
	return nil
}
