// Package daemon manages the background watcher process: forking, pid
// files, status, stop and log following.
package daemon

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

// Daemon states reported by GetDaemonStatus
const (
	StateRunning = "running"
	StateStopped = "stopped"
	StateDead    = "dead"
	StateError   = "error"
)

// Status describes the daemon as seen through its pid file
type Status struct {
	Running bool   `json:"daemon_running"`
	State   string `json:"status"`
	PID     int    `json:"pid,omitempty"`
	PidFile string `json:"pid_file"`
	LogFile string `json:"log_file,omitempty"`
	Message string `json:"message,omitempty"`
}

// GetDaemonStatus inspects pidFile. A pid file naming a dead process is
// removed.
func GetDaemonStatus(pidFile string) Status {
	status := Status{PidFile: pidFile}

	pid, err := ReadPID(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			status.State = StateStopped
			status.Message = "PID file not found"
		} else {
			status.State = StateError
			status.Message = err.Error()
		}
		return status
	}

	status.PID = pid

	if !processAlive(pid) {
		status.State = StateDead
		if removeErr := os.Remove(pidFile); removeErr != nil && !os.IsNotExist(removeErr) {
			status.Message = fmt.Sprintf("Process not running, failed to clean stale PID file: %v", removeErr)
		} else {
			status.Message = "Process not running (cleaned up stale PID file)"
		}
		return status
	}

	status.Running = true
	status.State = StateRunning
	status.Message = "Daemon is running"
	return status
}

// StopDaemon sends SIGTERM to the daemon, waits up to grace for it to exit
// and then sends SIGKILL.
func StopDaemon(pidFile string, grace time.Duration) error {
	pid, err := ReadPID(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrWatcherNotRunning, "PID file not found")
		}
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		if !processAlive(pid) {
			_ = os.Remove(pidFile)
			return errors.Wrapf(errors.ErrWatcherNotRunning, "process %d", pid)
		}
		return fmt.Errorf("failed to send SIGTERM to process %d: %w", pid, err)
	}

	if !waitForExit(pid, grace) {
		log.Info("Process still running, sending SIGKILL...")
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to kill process %d: %w", pid, err)
		}
	}

	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}

	return nil
}

func waitForExit(pid int, grace time.Duration) bool {
	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return !processAlive(pid)
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// signal 0 only checks for existence
	return process.Signal(syscall.Signal(0)) == nil
}
