//go:build !windows

package runner

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

// setProcAttr puts the child in its own process group so that signals reach
// grandchildren too (e.g. the binary built by `go run`).
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalGroup(p *os.Process, sig syscall.Signal) error {
	err := syscall.Kill(-p.Pid, sig)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

// terminate asks the child's process group to exit
func terminate(p *os.Process) error {
	return signalGroup(p, syscall.SIGTERM)
}

// forceKill kills the child's process group
func forceKill(p *os.Process) error {
	return signalGroup(p, syscall.SIGKILL)
}
