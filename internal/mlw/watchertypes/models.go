// Package watchertypes provides type definitions shared by the watcher packages
package watchertypes

import (
	"time"
)

// EventKind classifies a filesystem change
type EventKind int

// Event kind constants
const (
	// KindOther covers metadata and access notifications that never trigger a restart
	KindOther EventKind = iota
	KindCreate
	KindModify
	KindRemove
)

func (k EventKind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindModify:
		return "modify"
	case KindRemove:
		return "remove"
	default:
		return "other"
	}
}

// Triggers reports whether events of this kind may cause a restart
func (k EventKind) Triggers() bool {
	return k == KindCreate || k == KindModify || k == KindRemove
}

// ChangeEvent is a single change notification from the watch facility
type ChangeEvent struct {
	Kind  EventKind
	Paths []string
}

// FirstPath returns the first affected path, if any
func (e ChangeEvent) FirstPath() (string, bool) {
	if len(e.Paths) == 0 {
		return "", false
	}
	return e.Paths[0], true
}

// Result is an item on the change notification channel: either an event or
// an internal error reported by the watch facility.
type Result struct {
	Event ChangeEvent
	Err   error
}

// Restart status values recorded in history
const (
	RestartSucceeded = "succeeded"
	RestartFailed    = "failed"
)

// RestartRecord is a persisted restart attempt
type RestartRecord struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Trigger    string    `json:"trigger"` // path that caused the restart, or "manual"/"startup"
	ScriptType string    `json:"script_type"`
	Status     string    `json:"status"`
	Duration   int64     `json:"duration,omitempty"` // milliseconds
	PIDs       string    `json:"pids,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// WatcherCommand represents commands that can be sent to the watcher via socket
type WatcherCommand struct {
	Action string                 `json:"action"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// WatcherResponse represents responses from the watcher
type WatcherResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
