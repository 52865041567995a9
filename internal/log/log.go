//nolint:revive // Package name kept as "log" for stable internal imports.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var debugMode = false

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugMode = enabled
}

// DebugEnabled reports whether debug logging is on
func DebugEnabled() bool {
	return debugMode
}

// Debug logs debug messages when debug mode is enabled
func Debug(format string, elem ...any) {
	if debugMode {
		fmt.Println(color.YellowString("[DEBUG] ") + fmt.Sprintf(format, elem...))
	}
}

// Fatal logs an error message and exits the program
func Fatal(args ...interface{}) {
	var message string

	switch len(args) {
	case 0:
		message = "fatal error occurred"
	case 1:
		switch v := args[0].(type) {
		case error:
			message = v.Error()
		case string:
			message = v
		default:
			message = fmt.Sprintf("%v", v)
		}
	default:
		if format, ok := args[0].(string); ok && strings.Contains(format, "%") {
			message = fmt.Sprintf(format, args[1:]...)
		} else {
			message = fmt.Sprint(args...)
		}
	}

	lines := strings.Split(strings.TrimSpace(message), "\n")
	for _, line := range lines {
		fmt.Fprintln(os.Stderr, color.RedString("[ERROR] ")+line)
	}
	os.Exit(1)
}

// Error logs an error message to stderr
func Error(str string, elem ...any) {
	fmt.Fprintln(os.Stderr, color.RedString("[ERROR] ")+fmt.Sprintf(str, elem...))
}

// Info logs an informational message
func Info(format string, elem ...any) {
	fmt.Println(color.GreenString("[INFO] ") + fmt.Sprintf(format, elem...))
}

// InfoH2 logs an indented informational message
func InfoH2(format string, elem ...any) {
	fmt.Println(color.GreenString("  [INFO] ") + fmt.Sprintf(format, elem...))
}

// Logger is a leveled sink bound to a verbosity flag. Info and Error are
// always written; Debug only when verbose is set.
type Logger struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// New returns a Logger writing to the process stdout and stderr.
func New(verbose bool) *Logger {
	return &Logger{verbose: verbose}
}

// WithOutput returns a copy of l writing to the given writers.
// A nil writer keeps the process default.
func (l *Logger) WithOutput(out, errOut io.Writer) *Logger {
	return &Logger{verbose: l.verbose, out: out, errOut: errOut}
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}

func (l *Logger) stdout() io.Writer {
	if l.out != nil {
		return l.out
	}
	return os.Stdout
}

func (l *Logger) stderr() io.Writer {
	if l.errOut != nil {
		return l.errOut
	}
	return os.Stderr
}

// Info writes an informational line.
func (l *Logger) Info(format string, elem ...any) {
	fmt.Fprintln(l.stdout(), color.GreenString("[INFO] ")+fmt.Sprintf(format, elem...))
}

// Error writes an error line to the error stream.
func (l *Logger) Error(format string, elem ...any) {
	fmt.Fprintln(l.stderr(), color.RedString("[ERROR] ")+fmt.Sprintf(format, elem...))
}

// Debug writes a debug line when verbose output is enabled.
func (l *Logger) Debug(format string, elem ...any) {
	if !l.verbose {
		return
	}
	fmt.Fprintln(l.stdout(), color.YellowString("[DEBUG] ")+fmt.Sprintf(format, elem...))
}
