package reload

import (
	"time"
)

// Status is a point in time view of the reloader
type Status struct {
	Running     bool      `json:"running"`
	PIDs        []int     `json:"pids"`
	Paths       []string  `json:"paths"`
	ScriptType  string    `json:"script_type"`
	Restarts    int64     `json:"restarts"`
	LastTrigger time.Time `json:"last_trigger"`
	StartedAt   time.Time `json:"started_at"`
	LastError   string    `json:"last_error,omitempty"`
}

// Status returns the state as of the last restart or shutdown. It never
// waits on the supervisor, so it answers while a restart is in progress.
func (r *Reloader) Status() Status {
	r.mu.Lock()
	restarts := r.restarts
	lastError := r.lastError
	running := r.running
	pids := append([]int(nil), r.pids...)
	r.mu.Unlock()

	return Status{
		Running:     running,
		PIDs:        pids,
		Paths:       append([]string(nil), r.cfg.Path...),
		ScriptType:  r.cfg.ScriptType,
		Restarts:    restarts,
		LastTrigger: r.debouncer.LastTrigger(),
		StartedAt:   r.startedAt,
		LastError:   lastError,
	}
}
