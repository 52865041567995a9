// Package reload is the event loop that turns change notifications into
// serialized restarts of the managed script.
package reload

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dimasma0305/mlw/internal/mlw/config"
	"github.com/dimasma0305/mlw/internal/mlw/debounce"
	"github.com/dimasma0305/mlw/internal/mlw/errors"
	"github.com/dimasma0305/mlw/internal/mlw/filter"
	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

// Trigger names recorded for restarts that do not come from a file
const (
	TriggerStartup = "startup"
	TriggerManual  = "manual"
)

// Logger is the logging sink. Debug output is expected to be dropped
// unless verbose logging is enabled.
type Logger interface {
	Info(format string, elem ...any)
	Error(format string, elem ...any)
	Debug(format string, elem ...any)
}

// Supervisor is the process control used by the loop
type Supervisor interface {
	Restart(cfg *config.Config) error
	Stop() error
	Running() bool
	PIDs() []int
}

// Recorder persists restart attempts
type Recorder interface {
	RecordRestart(rec watchertypes.RestartRecord)
}

// Option configures a Reloader
type Option func(*Reloader)

// WithRecorder stores every restart attempt in rec
func WithRecorder(rec Recorder) Option {
	return func(r *Reloader) { r.recorder = rec }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Reloader) { r.now = now }
}

// WithSleep replaces the settle delay wait
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Reloader) { r.sleep = sleep }
}

// Reloader is the single consumer of the change channel
type Reloader struct {
	cfg        *config.Config
	matcher    *filter.Matcher
	debouncer  *debounce.Debouncer
	supervisor Supervisor
	logger     Logger
	recorder   Recorder
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error

	requests chan chan error
	loopDone chan struct{}
	doneOnce sync.Once

	mu        sync.Mutex
	startedAt time.Time
	restarts  int64
	lastError string
	running   bool
	pids      []int
}

// New builds a Reloader for cfg. The debounce window starts now.
func New(cfg *config.Config, supervisor Supervisor, logger Logger, opts ...Option) *Reloader {
	r := &Reloader{
		cfg:        cfg,
		matcher:    filter.NewMatcher(cfg.IgnorePattern),
		supervisor: supervisor,
		logger:     logger,
		now:        time.Now,
		sleep:      sleepContext,
		requests:   make(chan chan error),
		loopDone:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.startedAt = r.now()
	r.debouncer = debounce.New(cfg.DelayDuration(), r.startedAt)

	if err := r.matcher.Err(); err != nil {
		r.logger.Error("Invalid ignore pattern %q, no files will be ignored: %v", cfg.IgnorePattern, err)
	}
	return r
}

// Matcher returns the compiled ignore pattern
func (r *Reloader) Matcher() *filter.Matcher {
	return r.matcher
}

// Start performs the initial launch and restarts the debounce window. A
// failure here is fatal to the caller.
func (r *Reloader) Start() error {
	if err := r.restart(TriggerStartup); err != nil {
		return errors.Wrap(err, "initial launch failed")
	}
	r.debouncer.RecordTrigger(r.now())
	return nil
}

// Run consumes results until ctx is cancelled (returns nil) or the channel
// is closed (returns ErrEventChannelClosed). Events are handled one at a
// time on the calling goroutine.
func (r *Reloader) Run(ctx context.Context, results <-chan watchertypes.Result) error {
	defer r.doneOnce.Do(func() { close(r.loopDone) })

	for {
		select {
		case <-ctx.Done():
			return nil

		case reply := <-r.requests:
			r.debouncer.RecordTrigger(r.now())
			reply <- r.restart(TriggerManual)

		case res, ok := <-results:
			if !ok {
				r.logger.Error("Failed to receive file event: %v", errors.ErrEventChannelClosed)
				return errors.ErrEventChannelClosed
			}
			r.handleResult(ctx, res)
		}
	}
}

// RequestRestart asks the running loop for an immediate restart, bypassing
// the debounce window and settle delay, and waits for its outcome.
func (r *Reloader) RequestRestart(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case r.requests <- reply:
	case <-r.loopDone:
		return errors.ErrWatcherNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the managed script
func (r *Reloader) Shutdown() error {
	err := r.supervisor.Stop()

	r.mu.Lock()
	r.running = false
	r.pids = nil
	r.mu.Unlock()
	return err
}

func (r *Reloader) handleResult(ctx context.Context, res watchertypes.Result) {
	if res.Err != nil {
		r.logger.Error("Change handling error: %v", res.Err)
		return
	}

	path, ok := res.Event.FirstPath()
	if !ok {
		return
	}

	if r.matcher.ShouldIgnore(path) {
		r.logger.Debug("Ignored file: %s", path)
		return
	}

	if !res.Event.Kind.Triggers() {
		return
	}

	if !r.debouncer.TryTrigger(r.now()) {
		r.logger.Debug("Ignoring event due to debounce: %s", path)
		return
	}

	err := r.handleChange(ctx, path)
	// events queued during the settle wait and restart belong to the same burst
	r.debouncer.RecordTrigger(r.now())
	if err != nil && ctx.Err() == nil {
		r.logger.Error("Error handling change: %v", err)
	}
}

// handleChange waits for the settle delay so writes can finish, then
// restarts the script.
func (r *Reloader) handleChange(ctx context.Context, path string) error {
	r.logger.Info("File change detected. Restarting...")
	r.logger.Debug("Change in %s", path)

	if err := r.sleep(ctx, r.cfg.DelayDuration()); err != nil {
		return err
	}
	if err := r.restart(path); err != nil {
		return err
	}
	r.logger.Info("Script restarted successfully.")
	return nil
}

func (r *Reloader) restart(trigger string) error {
	start := r.now()
	err := r.supervisor.Restart(r.cfg)
	elapsed := r.now().Sub(start)
	pids := r.supervisor.PIDs()
	running := r.supervisor.Running()

	rec := watchertypes.RestartRecord{
		Timestamp:  start,
		Trigger:    trigger,
		ScriptType: r.cfg.ScriptType,
		Status:     watchertypes.RestartSucceeded,
		Duration:   elapsed.Milliseconds(),
		PIDs:       joinPIDs(pids),
	}

	r.mu.Lock()
	r.running = running
	r.pids = pids
	if err != nil {
		rec.Status = watchertypes.RestartFailed
		rec.Error = err.Error()
		r.lastError = err.Error()
	} else {
		r.restarts++
		r.lastError = ""
	}
	r.mu.Unlock()

	if r.recorder != nil {
		r.recorder.RecordRestart(rec)
	}
	return err
}

func joinPIDs(pids []int) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = strconv.Itoa(pid)
	}
	return strings.Join(parts, ",")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
