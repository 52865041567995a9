// Package debounce collapses bursts of change events into at most one
// trigger per window.
package debounce

import (
	"sync"
	"time"
)

// ShouldTrigger reports whether an event at now falls outside the window
// that started at last. The comparison is strict: an event exactly delay
// after last is still inside the window.
func ShouldTrigger(now, last time.Time, delay time.Duration) bool {
	return now.Sub(last) > delay
}

// Debouncer owns the time of the last accepted trigger.
type Debouncer struct {
	mu    sync.Mutex
	last  time.Time
	delay time.Duration
}

// New returns a Debouncer whose window starts at start.
func New(delay time.Duration, start time.Time) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{last: start, delay: delay}
}

// TryTrigger checks now against the window and, when accepted, records now
// as the new trigger time before releasing the lock. Rejected events are
// dropped.
func (d *Debouncer) TryTrigger(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !ShouldTrigger(now, d.last, d.delay) {
		return false
	}
	d.last = now
	return true
}

// RecordTrigger sets the last trigger time unconditionally.
func (d *Debouncer) RecordTrigger(now time.Time) {
	d.mu.Lock()
	d.last = now
	d.mu.Unlock()
}

// LastTrigger returns the time of the last accepted trigger.
func (d *Debouncer) LastTrigger() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Delay returns the window length.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
