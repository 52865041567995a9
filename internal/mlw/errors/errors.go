// Package errors holds the sentinel errors shared across mlw packages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// Configuration errors
	ErrConfigNotFound = errors.New("configuration not found")
	ErrConfigExists   = errors.New("configuration already exists")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrNoWatchPaths   = errors.New("no watch paths configured")
	ErrPathNotFound   = errors.New("watch path does not exist")
	ErrNegativeDelay  = errors.New("delay must not be negative")

	// Process errors
	ErrMissingScriptType     = errors.New("missing script type in config")
	ErrUnsupportedScriptType = errors.New("unsupported script type")
	ErrSpawnFailed           = errors.New("failed to start script")

	// Watcher errors
	ErrWatchFailed         = errors.New("watch registration failed")
	ErrEventChannelClosed  = errors.New("file event channel closed")
	ErrWatcherNotRunning   = errors.New("watcher not running")
	ErrDatabaseUnavailable = errors.New("history database not available")
	ErrInvalidPID          = errors.New("invalid PID file")
)

// Wrap wraps an error with additional context
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is checks if the error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As checks if the error can be unwrapped to the target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
