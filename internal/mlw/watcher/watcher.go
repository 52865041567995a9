// Package watcher assembles the mlw components into a running watcher:
// history database, process supervisor, filesystem watch, reload loop and
// control socket.
package watcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dimasma0305/mlw/internal/mlw/config"
	"github.com/dimasma0305/mlw/internal/mlw/database"
	"github.com/dimasma0305/mlw/internal/mlw/fswatch"
	"github.com/dimasma0305/mlw/internal/mlw/reload"
	"github.com/dimasma0305/mlw/internal/mlw/runner"
	"github.com/dimasma0305/mlw/internal/mlw/socket"
)

// Logger is the sink shared by every component
type Logger interface {
	Info(format string, elem ...any)
	Error(format string, elem ...any)
	Debug(format string, elem ...any)
}

// Watcher owns the components for one run
type Watcher struct {
	cfg    *config.Config
	rt     config.Runtime
	logger Logger

	db           *database.DB
	supervisor   *runner.Supervisor
	fs           *fswatch.Watcher
	reloader     *reload.Reloader
	socketServer *socket.Server
}

// New creates a watcher for cfg
func New(cfg *config.Config, rt config.Runtime, logger Logger) *Watcher {
	return &Watcher{
		cfg:    cfg,
		rt:     rt.WithDefaults(),
		logger: logger,
	}
}

// Supervisor exposes the process supervisor so callers can adjust it
// before Run
func (w *Watcher) Supervisor() *runner.Supervisor {
	if w.supervisor == nil {
		w.supervisor = runner.NewSupervisor(w.logger)
	}
	return w.supervisor
}

// Run starts the script and watches until ctx is cancelled or the change
// channel closes. Startup failures (watch registration, initial launch) are
// returned before any loop runs. The script is always stopped on return.
func (w *Watcher) Run(ctx context.Context) error {
	w.initDatabase()
	defer w.closeDatabase()

	logger := w.logger
	if w.db != nil {
		logger = &historyLogger{Logger: w.logger, db: w.db}
	}

	opts := []reload.Option{}
	if w.db != nil {
		opts = append(opts, reload.WithRecorder(w.db))
	}
	w.reloader = reload.New(w.cfg, w.Supervisor(), logger, opts...)

	fsw, err := fswatch.New(w.reloader.Matcher(), logger)
	if err != nil {
		return err
	}
	w.fs = fsw
	defer func() { _ = w.fs.Close() }()

	w.fs.Exclude(runtimeExcludes(w.rt, w.cfg.Path)...)
	for _, path := range w.cfg.Path {
		if err := w.fs.Add(path); err != nil {
			return err
		}
	}

	if err := w.reloader.Start(); err != nil {
		return err
	}
	defer func() {
		if err := w.reloader.Shutdown(); err != nil {
			logger.Error("Failed to stop script: %v", err)
		}
	}()

	for _, path := range w.cfg.Path {
		logger.Info("Watching path: %s", path)
	}

	ctx, cancel := context.WithCancel(ctx)
	socketDone := w.startSocket(ctx)
	defer func() {
		cancel()
		<-socketDone
	}()

	w.fs.Start()
	if err := w.reloader.Run(ctx, w.fs.Results()); err != nil {
		return err
	}
	logger.Info("Shutting down watcher...")
	return nil
}

// runtimeExcludes lists the files and directories the watcher writes to
// itself, so they never trigger a restart. A directory containing a watch
// root is never excluded as a whole.
func runtimeExcludes(rt config.Runtime, roots []string) []string {
	files := []string{rt.PidFile, rt.LogFile, rt.SocketPath, rt.HistoryPath}
	var excludes []string
	for _, f := range files {
		if f == "" {
			continue
		}
		excludes = append(excludes, f)
		if dir := filepath.Dir(f); !containsRoot(dir, roots) {
			excludes = append(excludes, dir)
		}
	}
	if rt.HistoryPath != "" {
		excludes = append(excludes, rt.HistoryPath+"-wal", rt.HistoryPath+"-shm", rt.HistoryPath+"-journal")
	}
	return excludes
}

func (w *Watcher) initDatabase() {
	if !w.rt.HistoryEnabled {
		return
	}
	db := database.New(w.rt.HistoryPath, true)
	if err := db.Init(); err != nil {
		w.logger.Error("Restart history unavailable: %v", err)
		return
	}
	w.db = db
}

func (w *Watcher) closeDatabase() {
	if w.db == nil {
		return
	}
	if err := w.db.Close(); err != nil {
		w.logger.Error("Failed to close history database: %v", err)
	}
}

// startSocket serves control commands in the background. The returned
// channel is closed once the server has stopped.
func (w *Watcher) startSocket(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if !w.rt.SocketEnabled {
		close(done)
		return done
	}

	var history socket.HistorySource
	if w.db != nil {
		history = w.db
	}
	w.socketServer = socket.NewServer(w.rt.SocketPath, true, socket.NewWatcherHandler(w.reloader, history))
	if err := w.socketServer.Init(); err != nil {
		w.logger.Error("Control socket unavailable: %v", err)
		close(done)
		return done
	}

	go func() {
		defer close(done)
		w.socketServer.Run(ctx)
	}()
	return done
}

func containsRoot(dir string, roots []string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return true
	}
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return true
		}
		if absRoot == absDir || strings.HasPrefix(absRoot, absDir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
