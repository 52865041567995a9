package database

import (
	"fmt"
	"os"
	"time"

	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

// RecordRestart stores a restart attempt. Failures are reported on stderr
// and never interrupt the watcher.
func (d *DB) RecordRestart(rec watchertypes.RestartRecord) {
	if !d.enabled {
		return
	}

	db := d.GetDB()
	if db == nil {
		return
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
		INSERT INTO restarts (timestamp, trigger_path, script_type, status, duration, pids, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, ts.UnixNano(), rec.Trigger, rec.ScriptType, rec.Status, rec.Duration, rec.PIDs, rec.Error)
	if err != nil {
		// Don't use the logger here, it may be writing to this database
		fmt.Fprintf(os.Stderr, "Failed to record restart: %v\n", err)
	}
}

// LogToDatabase logs a message to the database
func (d *DB) LogToDatabase(level, component, message, errorMsg string) {
	if !d.enabled {
		return
	}

	db := d.GetDB()
	if db == nil {
		return
	}

	query := `
		INSERT INTO watcher_logs (timestamp, level, component, message, error)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, time.Now().UnixNano(), level, component, message, errorMsg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to log to database: %v\n", err)
	}
}
