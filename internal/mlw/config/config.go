// Package config loads and validates the mlw configuration file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

// DefaultConfigFile is the config path used when none is given
const DefaultConfigFile = "mlw.yaml"

// Config is the watcher configuration. It is never mutated after Load.
type Config struct {
	Path          []string `yaml:"path"`
	ScriptArgs    []string `yaml:"script_args,omitempty"`
	Delay         int      `yaml:"delay"`
	Verbose       bool     `yaml:"verbose,omitempty"`
	IgnorePattern string   `yaml:"ignore_pattern,omitempty"`
	ScriptType    string   `yaml:"script_type"`
}

// DelayDuration returns the configured delay as a duration
func (c *Config) DelayDuration() time.Duration {
	if c.Delay <= 0 {
		return 0
	}
	return time.Duration(c.Delay) * time.Second
}

// Validate checks the fields that can be verified without starting anything
func (c *Config) Validate() error {
	if len(c.Path) == 0 {
		return errors.ErrNoWatchPaths
	}
	for _, p := range c.Path {
		if _, err := os.Stat(p); err != nil {
			return errors.Wrapf(errors.ErrPathNotFound, "%s", p)
		}
	}
	if c.Delay < 0 {
		return errors.Wrapf(errors.ErrNegativeDelay, "delay %d", c.Delay)
	}
	return nil
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// Parse decodes a configuration from YAML bytes without validating it
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Load reads, parses and validates the configuration file at path
func Load(path string) (*Config, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(buf)
	defer buf.Reset()

	//nolint:gosec // G304: config path is supplied by the user
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrConfigNotFound, "%s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(buf.Bytes())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}
