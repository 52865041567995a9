package daemon

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

// EnsureRuntimeDirs creates the parent directory of each runtime file.
// Empty paths are skipped.
func EnsureRuntimeDirs(files ...string) error {
	for _, file := range files {
		if file == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
			return errors.Wrapf(err, "failed to create runtime directory for %s", file)
		}
	}
	return nil
}

// WritePID records the daemon PID in pidFile
func WritePID(pidFile string, pid int) error {
	if err := EnsureRuntimeDirs(pidFile); err != nil {
		return err
	}
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(pid)+"\n"), 0600); err != nil {
		return errors.Wrap(err, "failed to write PID file")
	}
	log.Debug("Daemon PID %d recorded in %s", pid, pidFile)
	return nil
}

// ReadPID returns the PID stored in pidFile. A missing file yields an
// os.ErrNotExist error; anything but a positive integer is ErrInvalidPID.
func ReadPID(pidFile string) (int, error) {
	//nolint:gosec // G304: pid file location comes from the runtime settings
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, err
	}

	content := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(content)
	if err != nil || pid <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidPID, "%s contains %q", pidFile, content)
	}
	return pid, nil
}
