// Package database provides SQLite storage for restart history and watcher logs
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/errors"

	// Import pure-Go SQLite driver for database/sql (no CGO required)
	_ "modernc.org/sqlite"
)

// DB wraps database operations for the watcher
type DB struct {
	db      *sql.DB
	mu      sync.RWMutex
	enabled bool
	path    string
}

// New creates a new database instance
func New(dbPath string, enabled bool) *DB {
	return &DB{
		path:    dbPath,
		enabled: enabled,
	}
}

// Init opens the database and creates tables
func (d *DB) Init() error {
	if !d.enabled {
		log.Debug("Restart history disabled")
		return nil
	}

	dbPath := d.path
	log.Debug("Opening history database: %s", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL lets the status commands read while the watcher writes
	dbPath += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	d.mu.Lock()
	d.db = db
	d.mu.Unlock()

	if err := d.createTables(); err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

func (d *DB) createTables() error {
	db := d.GetDB()
	if db == nil {
		return errors.ErrDatabaseUnavailable
	}

	createRestartsTable := `
		CREATE TABLE IF NOT EXISTS restarts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			trigger_path TEXT NOT NULL,
			script_type TEXT NOT NULL,
			status TEXT NOT NULL,
			duration INTEGER,
			pids TEXT,
			error TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_restarts_timestamp ON restarts(timestamp);
		CREATE INDEX IF NOT EXISTS idx_restarts_status ON restarts(status);
	`

	createLogsTable := `
		CREATE TABLE IF NOT EXISTS watcher_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			level TEXT NOT NULL,
			component TEXT NOT NULL,
			message TEXT NOT NULL,
			error TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON watcher_logs(timestamp);
		CREATE INDEX IF NOT EXISTS idx_logs_level ON watcher_logs(level);
	`

	if _, err := db.Exec(createRestartsTable); err != nil {
		return fmt.Errorf("failed to create restarts table: %w", err)
	}
	if _, err := db.Exec(createLogsTable); err != nil {
		return fmt.Errorf("failed to create watcher_logs table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db != nil {
		err := d.db.Close()
		d.db = nil
		return err
	}
	return nil
}

// GetDB returns the underlying database connection (for queries)
func (d *DB) GetDB() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db
}

// IsEnabled returns whether the database is enabled
func (d *DB) IsEnabled() bool {
	return d.enabled
}
