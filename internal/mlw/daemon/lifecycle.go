package daemon

import (
	"fmt"

	godaemon "github.com/sevlyar/go-daemon"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/config"
)

// Reborn forks the current command into the background. In the parent it
// returns parent=true once the child has started. In the child it returns
// parent=false with a release func that must be called on exit to drop the
// pid file.
func Reborn(rt config.Runtime) (parent bool, release func() error, err error) {
	if err := EnsureRuntimeDirs(rt.PidFile, rt.LogFile); err != nil {
		return false, nil, err
	}

	daemonCtx := &godaemon.Context{
		PidFileName: rt.PidFile,
		PidFilePerm: 0644,
		LogFileName: rt.LogFile,
		LogFilePerm: 0640,
		WorkDir:     "./",
		Umask:       027,
	}

	child, err := daemonCtx.Reborn()
	if err != nil {
		if err == godaemon.ErrWouldBlock {
			return false, nil, fmt.Errorf("daemon already running (PID file %s is locked)", rt.PidFile)
		}
		return false, nil, fmt.Errorf("failed to fork daemon: %w", err)
	}

	if child != nil {
		log.Info("✅ mlw daemon started successfully")
		log.Info("📄 PID: %d (saved to %s)", child.Pid, rt.PidFile)
		log.Info("📝 Logs: %s", rt.LogFile)
		return true, nil, nil
	}

	return false, daemonCtx.Release, nil
}

// WasReborn reports whether this process is the forked daemon
func WasReborn() bool {
	return godaemon.WasReborn()
}
