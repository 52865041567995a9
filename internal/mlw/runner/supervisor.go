// Package runner owns the lifecycle of the managed child processes.
//
// The supervisor is either Stopped (no handles) or Running (one handle per
// configured watch path). Every restart stops and reaps the previous
// children before new ones are spawned, so at most one child is alive per
// path slot.
package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dimasma0305/mlw/internal/mlw/config"
	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

// DefaultGracePeriod is how long a child may take to exit after SIGTERM
// before it is killed.
const DefaultGracePeriod = 5 * time.Second

// Logger is the logging sink used by the supervisor
type Logger interface {
	Info(format string, elem ...any)
	Error(format string, elem ...any)
	Debug(format string, elem ...any)
}

// Supervisor starts, stops and restarts the managed children
type Supervisor struct {
	mu       sync.Mutex
	procs    []*process
	commands map[string]Command
	stdout   io.Writer
	stderr   io.Writer
	grace    time.Duration
	logger   Logger

	// start is swapped in tests to simulate spawn failures
	start func(*exec.Cmd) error
}

type process struct {
	cmd      *exec.Cmd
	path     string
	done     chan struct{}
	waitErr  error
	stopping atomic.Bool
}

// NewSupervisor returns a stopped supervisor whose children inherit the
// parent's stdout and stderr.
func NewSupervisor(logger Logger) *Supervisor {
	return &Supervisor{
		commands: builtinCommands,
		grace:    DefaultGracePeriod,
		logger:   logger,
		start:    (*exec.Cmd).Start,
	}
}

// SetOutput redirects child output. Nil keeps the parent's stream.
func (s *Supervisor) SetOutput(stdout, stderr io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stdout = stdout
	s.stderr = stderr
}

// SetGracePeriod sets the SIGTERM to SIGKILL escalation delay
func (s *Supervisor) SetGracePeriod(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	s.grace = d
}

// Running reports whether the supervisor holds child handles
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.procs) > 0
}

// PIDs returns the process ids of the current children in path order
func (s *Supervisor) PIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pids := make([]int, 0, len(s.procs))
	for _, p := range s.procs {
		pids = append(pids, p.cmd.Process.Pid)
	}
	return pids
}

// Restart stops any running children, then spawns one child per configured
// path. If any spawn fails the children started by this call are stopped
// again and the supervisor is left Stopped.
func (s *Supervisor) Restart(cfg *config.Config) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	command, err := resolve(s.commands, cfg.ScriptType)
	if err != nil {
		return err
	}

	s.logger.Info("Restarting script using: %s", command.Executable)

	started := make([]*process, 0, len(cfg.Path))
	defer func() {
		if err == nil {
			return
		}
		for _, p := range started {
			s.stopProcess(p)
		}
	}()

	for _, path := range cfg.Path {
		args := BuildArgs(command.DefaultArgs, path, cfg.ScriptArgs)
		s.logger.Debug("Running command: %s with args: %q", command.Executable, args)

		p, spawnErr := s.spawn(command.Executable, args, path)
		if spawnErr != nil {
			return fmt.Errorf("%w %s for %s: %w", errors.ErrSpawnFailed, cfg.ScriptType, path, spawnErr)
		}
		started = append(started, p)
	}

	s.procs = started
	return nil
}

// Stop terminates and reaps all children. Stopping a stopped supervisor is
// a no-op.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	return nil
}

func (s *Supervisor) stopLocked() {
	if len(s.procs) == 0 {
		return
	}
	for _, p := range s.procs {
		s.stopProcess(p)
	}
	s.procs = nil
}

func (s *Supervisor) spawn(executable string, args []string, path string) (*process, error) {
	cmd := exec.Command(executable, args...)
	cmd.Stdout = s.stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = s.stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	setProcAttr(cmd)

	if err := s.start(cmd); err != nil {
		return nil, err
	}

	p := &process{cmd: cmd, path: path, done: make(chan struct{})}
	go s.reap(p)
	return p, nil
}

// reap waits for the child so it never lingers as a zombie
func (s *Supervisor) reap(p *process) {
	p.waitErr = p.cmd.Wait()
	close(p.done)

	if p.stopping.Load() {
		return
	}
	if p.waitErr != nil {
		s.logger.Error("Script for %s exited: %v", p.path, p.waitErr)
	} else {
		s.logger.Info("Script for %s exited", p.path)
	}
}

// stopProcess sends SIGTERM, escalates to SIGKILL after the grace period and
// blocks until the child has been reaped. A child that survives SIGKILL
// blocks here indefinitely.
func (s *Supervisor) stopProcess(p *process) {
	p.stopping.Store(true)
	pid := p.cmd.Process.Pid

	select {
	case <-p.done:
		s.logger.Debug("Script %d already exited", pid)
		return
	default:
	}

	if err := terminate(p.cmd.Process); err != nil {
		s.logger.Error("Failed to signal script %d: %v", pid, err)
	}

	timer := time.NewTimer(s.grace)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		s.logger.Debug("Script %d still running after %v, killing", pid, s.grace)
		if err := forceKill(p.cmd.Process); err != nil {
			s.logger.Error("Failed to kill script %d: %v", pid, err)
		}
		<-p.done
	}
	s.logger.Debug("Script %d stopped", pid)
}
