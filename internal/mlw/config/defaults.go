package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

// DefaultConfig is the template written by Generate
const DefaultConfig = `# Default mlw configuration file
# Path(s) to watch
path: ["./src"]

# Delay (in seconds) between script restarts
delay: 2

# Verbose logging
verbose: true

# Pattern for files to ignore (optional)
ignore_pattern: '.*\.git.*'

# Type of script to run (python, python2, node, lua, php, go, rust, sh)
script_type: node

# Additional arguments for the script (optional)
# script_args: ["--dev", "--watch"]
`

// Generate writes DefaultConfig to path. It refuses to overwrite an
// existing file.
func Generate(path string) error {
	return WriteConfig(path, []byte(DefaultConfig))
}

// Marshal renders cfg as a config file with a short header
func Marshal(cfg *Config) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append([]byte("# mlw configuration file\n"), body...), nil
}

// WriteConfig writes raw config content to path unless the file exists
func WriteConfig(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Wrapf(errors.ErrConfigExists, "%s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	//nolint:gosec // G306: config file is meant to be readable
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Runtime holds the daemon and bookkeeping locations. They come from
// command line flags rather than the config file.
type Runtime struct {
	DaemonMode     bool
	PidFile        string
	LogFile        string
	SocketEnabled  bool
	SocketPath     string
	HistoryEnabled bool
	HistoryPath    string
}

// DefaultRuntime provides default runtime locations
var DefaultRuntime = Runtime{
	DaemonMode:     false,
	PidFile:        ".mlw/mlw.pid",
	LogFile:        ".mlw/mlw.log",
	SocketEnabled:  true,
	SocketPath:     ".mlw/mlw.sock",
	HistoryEnabled: true,
	HistoryPath:    ".mlw/history.db",
}

// WithDefaults fills empty locations from DefaultRuntime
func (r Runtime) WithDefaults() Runtime {
	if r.PidFile == "" {
		r.PidFile = DefaultRuntime.PidFile
	}
	if r.LogFile == "" {
		r.LogFile = DefaultRuntime.LogFile
	}
	if r.SocketPath == "" {
		r.SocketPath = DefaultRuntime.SocketPath
	}
	if r.HistoryPath == "" {
		r.HistoryPath = DefaultRuntime.HistoryPath
	}
	return r
}
