package database

import (
	"database/sql"
	"time"

	"github.com/dimasma0305/mlw/internal/mlw/errors"
	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

// WatcherLog is a stored log line
type WatcherLog struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
}

// GetRecentRestarts returns the newest restart records first
func (d *DB) GetRecentRestarts(limit int) ([]watchertypes.RestartRecord, error) {
	db := d.GetDB()
	if db == nil {
		return nil, errors.ErrDatabaseUnavailable
	}

	query := `
		SELECT id, timestamp, trigger_path, script_type, status, duration, pids, error
		FROM restarts
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query restarts")
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []watchertypes.RestartRecord
	for rows.Next() {
		var rec watchertypes.RestartRecord
		var ts int64
		var duration sql.NullInt64
		var pids, errorMsg sql.NullString

		if err := rows.Scan(&rec.ID, &ts, &rec.Trigger, &rec.ScriptType, &rec.Status, &duration, &pids, &errorMsg); err != nil {
			return nil, errors.Wrap(err, "failed to scan restart")
		}

		rec.Timestamp = time.Unix(0, ts)
		rec.Duration = duration.Int64
		rec.PIDs = pids.String
		rec.Error = errorMsg.String
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetRecentLogs retrieves recent log entries from the database
func (d *DB) GetRecentLogs(limit int) ([]WatcherLog, error) {
	db := d.GetDB()
	if db == nil {
		return nil, errors.ErrDatabaseUnavailable
	}

	query := `
		SELECT id, timestamp, level, component, message, error
		FROM watcher_logs
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	var logs []WatcherLog
	for rows.Next() {
		var entry WatcherLog
		var ts int64
		var errorMsg sql.NullString

		if err := rows.Scan(&entry.ID, &ts, &entry.Level, &entry.Component, &entry.Message, &errorMsg); err != nil {
			return nil, errors.Wrap(err, "failed to scan log")
		}

		entry.Timestamp = time.Unix(0, ts)
		entry.Error = errorMsg.String
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}
