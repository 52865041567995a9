//go:build windows

package runner

import (
	"os"
	"os/exec"

	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

func setProcAttr(_ *exec.Cmd) {}

// terminate has no graceful variant on Windows
func terminate(p *os.Process) error {
	return forceKill(p)
}

func forceKill(p *os.Process) error {
	err := p.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
