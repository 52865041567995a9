//nolint:errcheck,gosec // Test file with acceptable error handling patterns
package log

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestSetDebugMode(t *testing.T) {
	originalDebugMode := debugMode
	defer func() { debugMode = originalDebugMode }()

	tests := []struct {
		name    string
		enabled bool
	}{
		{
			name:    "enable debug",
			enabled: true,
		},
		{
			name:    "disable debug",
			enabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetDebugMode(tt.enabled)
			if DebugEnabled() != tt.enabled {
				t.Errorf("SetDebugMode(%v) did not set debugMode correctly", tt.enabled)
			}
		})
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestDebugOutput(t *testing.T) {
	originalDebugMode := debugMode
	defer func() { debugMode = originalDebugMode }()

	output := captureStdout(t, func() {
		SetDebugMode(true)
		Debug("test %s", "message")
	})

	if !strings.Contains(output, "test message") {
		t.Errorf("Debug() did not output expected message, got: %s", output)
	}
	if !strings.Contains(output, "[DEBUG]") {
		t.Errorf("Debug() did not include [DEBUG] prefix, got: %s", output)
	}
}

func TestDebugDisabled(t *testing.T) {
	originalDebugMode := debugMode
	defer func() { debugMode = originalDebugMode }()

	output := captureStdout(t, func() {
		SetDebugMode(false)
		Debug("test message")
	})

	if output != "" {
		t.Errorf("Debug() should not output when disabled, got: %s", output)
	}
}

func TestLogger_Levels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name       string
		verbose    bool
		wantStdout []string
		wantStderr []string
		notStdout  []string
	}{
		{
			name:       "quiet suppresses debug",
			verbose:    false,
			wantStdout: []string{"[INFO] watching ./src"},
			wantStderr: []string{"[ERROR] spawn failed"},
			notStdout:  []string{"[DEBUG]"},
		},
		{
			name:       "verbose emits debug",
			verbose:    true,
			wantStdout: []string{"[INFO] watching ./src", "[DEBUG] ignored file: .git/HEAD"},
			wantStderr: []string{"[ERROR] spawn failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			l := New(tt.verbose).WithOutput(&stdout, &stderr)

			l.Info("watching %s", "./src")
			l.Error("spawn failed")
			l.Debug("ignored file: %s", ".git/HEAD")

			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q, got: %s", want, stdout.String())
				}
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr missing %q, got: %s", want, stderr.String())
				}
			}
			for _, unwanted := range tt.notStdout {
				if strings.Contains(stdout.String(), unwanted) {
					t.Errorf("stdout should not contain %q, got: %s", unwanted, stdout.String())
				}
			}
			if strings.Contains(stdout.String(), "[ERROR]") {
				t.Errorf("errors must go to stderr, got stdout: %s", stdout.String())
			}
		})
	}
}

func TestLogger_Verbose(t *testing.T) {
	if New(false).Verbose() {
		t.Error("New(false).Verbose() = true, want false")
	}
	if !New(true).WithOutput(nil, nil).Verbose() {
		t.Error("WithOutput should keep verbosity")
	}
}

func TestLogger_ColorsOnlyPrefix(t *testing.T) {
	oldNoColor := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = oldNoColor }()

	var stdout, stderr bytes.Buffer
	l := New(true).WithOutput(&stdout, &stderr)
	l.Info("watching %s", "./src")
	l.Error("spawn failed")
	l.Debug("ignored file")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "info", got: stdout.String(), want: color.GreenString("[INFO] ") + "watching ./src\n"},
		{name: "error", got: stderr.String(), want: color.RedString("[ERROR] ") + "spawn failed\n"},
		{name: "debug", got: stdout.String(), want: color.YellowString("[DEBUG] ") + "ignored file\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("output = %q, want it to contain %q", tt.got, tt.want)
			}
		})
	}
}
