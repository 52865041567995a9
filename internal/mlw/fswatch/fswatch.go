// Package fswatch turns fsnotify notifications for a set of watch roots
// into a single channel of change results.
package fswatch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/dimasma0305/mlw/internal/mlw/errors"
	"github.com/dimasma0305/mlw/internal/mlw/filter"
	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

const resultBuffer = 128

// Logger is the logging sink used by the watcher
type Logger interface {
	Error(format string, elem ...any)
	Debug(format string, elem ...any)
}

// Watcher registers watch roots recursively and forwards their events
type Watcher struct {
	fs      *fsnotify.Watcher
	matcher *filter.Matcher
	logger  Logger
	results chan watchertypes.Result
	done    chan struct{}

	excluded []string

	startOnce sync.Once
	closeOnce sync.Once
}

// New creates a watcher. Directories matching the matcher are never
// registered.
func New(matcher *filter.Matcher, logger Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	return &Watcher{
		fs:      fsw,
		matcher: matcher,
		logger:  logger,
		results: make(chan watchertypes.Result, resultBuffer),
		done:    make(chan struct{}),
	}, nil
}

// Exclude drops events under dirs and keeps them from being registered.
// It must be called before Add and Start.
func (w *Watcher) Exclude(dirs ...string) {
	for _, dir := range dirs {
		if abs, err := filepath.Abs(dir); err == nil {
			w.excluded = append(w.excluded, abs)
		}
	}
}

func (w *Watcher) isExcluded(path string) bool {
	if len(w.excluded) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.excluded {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Add watches root. Directories are walked and every non-ignored
// subdirectory is registered as well; a plain file is watched directly.
func (w *Watcher) Add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(errors.ErrWatchFailed, "%s: %v", root, err)
	}
	if !info.IsDir() {
		if err := w.fs.Add(root); err != nil {
			return errors.Wrapf(errors.ErrWatchFailed, "%s: %v", root, err)
		}
		return nil
	}
	if err := w.fs.Add(root); err != nil {
		return errors.Wrapf(errors.ErrWatchFailed, "%s: %v", root, err)
	}
	w.addSubdirs(root)
	return nil
}

func (w *Watcher) addSubdirs(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == dir {
			return nil
		}
		if w.matcher.ShouldIgnoreDir(path) || w.isExcluded(path) {
			w.logger.Debug("Not watching ignored directory: %s", path)
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Error("Failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}

// WatchList returns the registered paths in sorted order
func (w *Watcher) WatchList() []string {
	list := w.fs.WatchList()
	sort.Strings(list)
	return list
}

// Results is the change notification channel. It is closed when the
// underlying fsnotify watcher stops.
func (w *Watcher) Results() <-chan watchertypes.Result {
	return w.results
}

// Start launches the goroutine pumping fsnotify events into Results
func (w *Watcher) Start() {
	w.startOnce.Do(func() {
		go w.pump()
	})
}

// Close stops watching. Results is closed once the pump drains.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) pump() {
	defer close(w.results)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.isExcluded(event.Name) {
				continue
			}
			kind := ConvertOp(event.Op)
			if kind == watchertypes.KindCreate {
				w.watchNewDir(event.Name)
			}
			w.send(watchertypes.Result{Event: watchertypes.ChangeEvent{
				Kind:  kind,
				Paths: []string{event.Name},
			}})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.send(watchertypes.Result{Err: err})
		}
	}
}

func (w *Watcher) send(r watchertypes.Result) {
	select {
	case w.results <- r:
	case <-w.done:
	}
}

// watchNewDir registers directories created after startup
func (w *Watcher) watchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if w.matcher.ShouldIgnoreDir(path) {
		return
	}
	if err := w.fs.Add(path); err != nil {
		w.logger.Error("Failed to watch new directory %s: %v", path, err)
		return
	}
	w.logger.Debug("Watching new directory: %s", path)
	w.addSubdirs(path)
}

// ConvertOp maps an fsnotify operation to an event kind. Renames count as
// modifications; permission changes are metadata only.
func ConvertOp(op fsnotify.Op) watchertypes.EventKind {
	switch {
	case op.Has(fsnotify.Create):
		return watchertypes.KindCreate
	case op.Has(fsnotify.Remove):
		return watchertypes.KindRemove
	case op.Has(fsnotify.Write), op.Has(fsnotify.Rename):
		return watchertypes.KindModify
	default:
		return watchertypes.KindOther
	}
}
