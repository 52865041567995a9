//go:build !windows

package runner

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/dimasma0305/mlw/internal/mlw/config"
	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, format string, elem ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, elem...))
}

func (l *recordingLogger) Info(format string, elem ...any)  { l.add("INFO", format, elem...) }
func (l *recordingLogger) Error(format string, elem ...any) { l.add("ERROR", format, elem...) }
func (l *recordingLogger) Debug(format string, elem ...any) { l.add("DEBUG", format, elem...) }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func alive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

func newTestSupervisor(t *testing.T) *Supervisor {
	t.Helper()
	s := NewSupervisor(&recordingLogger{})
	s.SetGracePeriod(2 * time.Second)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestSupervisor_RestartAndStop(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "serve.sh", "sleep 30\n")
	cfg := &config.Config{Path: []string{script}, ScriptType: "sh"}

	s := newTestSupervisor(t)
	if s.Running() {
		t.Fatal("new supervisor should be stopped")
	}

	if err := s.Restart(cfg); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}
	if !s.Running() {
		t.Fatal("supervisor should be running after Restart()")
	}
	first := s.PIDs()
	if len(first) != 1 || !alive(first[0]) {
		t.Fatalf("expected one live child, got %v", first)
	}

	if err := s.Restart(cfg); err != nil {
		t.Fatalf("second Restart() failed: %v", err)
	}
	second := s.PIDs()
	if len(second) != 1 {
		t.Fatalf("expected one child after restart, got %v", second)
	}
	if second[0] == first[0] {
		t.Error("restart should spawn a new process")
	}
	if alive(first[0]) {
		t.Errorf("old child %d should have been terminated and reaped", first[0])
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if s.Running() {
		t.Error("supervisor should be stopped after Stop()")
	}
	if alive(second[0]) {
		t.Errorf("child %d should be gone after Stop()", second[0])
	}

	if err := s.Stop(); err != nil {
		t.Errorf("second Stop() should be a no-op, got %v", err)
	}
	if s.Running() || len(s.PIDs()) != 0 {
		t.Error("second Stop() changed state")
	}
}

func TestSupervisor_OneChildPerPath(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.sh", "sleep 30\n")
	b := writeScript(t, dir, "b.sh", "sleep 30\n")
	cfg := &config.Config{Path: []string{a, b}, ScriptType: "sh"}

	s := newTestSupervisor(t)
	for round := 0; round < 3; round++ {
		before := s.PIDs()
		if err := s.Restart(cfg); err != nil {
			t.Fatalf("Restart() round %d failed: %v", round, err)
		}
		pids := s.PIDs()
		if len(pids) != 2 {
			t.Fatalf("round %d: expected 2 children, got %v", round, pids)
		}
		for _, pid := range before {
			if alive(pid) {
				t.Errorf("round %d: previous child %d still alive", round, pid)
			}
		}
	}
}

func TestSupervisor_UnknownScriptType(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "serve.sh", "sleep 30\n")

	s := newTestSupervisor(t)
	if err := s.Restart(&config.Config{Path: []string{script}, ScriptType: "sh"}); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}
	old := s.PIDs()

	err := s.Restart(&config.Config{Path: []string{script}, ScriptType: "cobol"})
	if !errors.Is(err, errors.ErrUnsupportedScriptType) {
		t.Fatalf("Restart() error = %v, want ErrUnsupportedScriptType", err)
	}
	if !strings.Contains(err.Error(), "cobol") {
		t.Errorf("error should name the script type, got %q", err.Error())
	}
	if s.Running() {
		t.Error("supervisor should be stopped after an unsupported script type")
	}
	if alive(old[0]) {
		t.Errorf("previous child %d should have been stopped", old[0])
	}
}

func TestSupervisor_MissingScriptType(t *testing.T) {
	s := newTestSupervisor(t)
	err := s.Restart(&config.Config{Path: []string{"."}})
	if !errors.Is(err, errors.ErrMissingScriptType) {
		t.Errorf("Restart() error = %v, want ErrMissingScriptType", err)
	}
	if s.Running() {
		t.Error("supervisor should stay stopped")
	}
}

func TestSupervisor_SpawnFailure(t *testing.T) {
	s := newTestSupervisor(t)
	s.commands = map[string]Command{
		"ghost": {Executable: "mlw-test-no-such-binary"},
	}

	err := s.Restart(&config.Config{Path: []string{"."}, ScriptType: "ghost"})
	if !errors.Is(err, errors.ErrSpawnFailed) {
		t.Fatalf("Restart() error = %v, want ErrSpawnFailed", err)
	}
	if s.Running() {
		t.Error("failed spawn must leave the supervisor stopped")
	}
}

func TestSupervisor_PartialSpawnFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.sh", "sleep 30\n")
	b := writeScript(t, dir, "b.sh", "sleep 30\n")

	s := newTestSupervisor(t)
	var startedPIDs []int
	calls := 0
	s.start = func(cmd *exec.Cmd) error {
		calls++
		if calls == 2 {
			return fmt.Errorf("simulated spawn failure")
		}
		if err := cmd.Start(); err != nil {
			return err
		}
		startedPIDs = append(startedPIDs, cmd.Process.Pid)
		return nil
	}

	err := s.Restart(&config.Config{Path: []string{a, b}, ScriptType: "sh"})
	if !errors.Is(err, errors.ErrSpawnFailed) {
		t.Fatalf("Restart() error = %v, want ErrSpawnFailed", err)
	}
	if s.Running() {
		t.Error("partial spawn failure must leave the supervisor stopped")
	}
	if len(startedPIDs) != 1 {
		t.Fatalf("expected exactly one child to have started, got %v", startedPIDs)
	}
	if alive(startedPIDs[0]) {
		t.Errorf("child %d started before the failure should have been stopped", startedPIDs[0])
	}
}

func TestSupervisor_KillsAfterGracePeriod(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "stubborn.sh", "trap '' TERM\nsleep 30\n")

	s := newTestSupervisor(t)
	s.SetGracePeriod(200 * time.Millisecond)
	if err := s.Restart(&config.Config{Path: []string{script}, ScriptType: "sh"}); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}
	pid := s.PIDs()[0]

	// Give the shell time to install the trap.
	time.Sleep(200 * time.Millisecond)

	start := time.Now()
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Stop() took %v, SIGKILL escalation did not happen", elapsed)
	}
	if alive(pid) {
		t.Errorf("child %d ignoring SIGTERM should have been killed", pid)
	}
}

func TestSupervisor_InheritsOutputAndArgs(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "echo.sh", "echo \"args:$*\"\nsleep 30\n")

	s := newTestSupervisor(t)
	var stdout, stderr syncBuffer
	s.SetOutput(&stdout, &stderr)

	cfg := &config.Config{Path: []string{script}, ScriptType: "sh", ScriptArgs: []string{"--dev", "--port=3000"}}
	if err := s.Restart(cfg); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && !strings.Contains(stdout.String(), "args:") {
		time.Sleep(20 * time.Millisecond)
	}
	if got := stdout.String(); !strings.Contains(got, "args:--dev --port=3000") {
		t.Errorf("child stdout = %q, want extra args after the path", got)
	}
}

func TestSupervisor_ChildExitIsLogged(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "fail.sh", "exit 3\n")

	logger := &recordingLogger{}
	s := NewSupervisor(logger)
	t.Cleanup(func() { _ = s.Stop() })

	if err := s.Restart(&config.Config{Path: []string{script}, ScriptType: "sh"}); err != nil {
		t.Fatalf("Restart() failed: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		logger.mu.Lock()
		found := false
		for _, line := range logger.lines {
			if strings.HasPrefix(line, "ERROR Script for "+script+" exited") {
				found = true
			}
		}
		logger.mu.Unlock()
		if found {
			// The handle is kept until the next restart or stop.
			if !s.Running() {
				t.Error("an exited child is presumed running until stopped")
			}
			if err := s.Stop(); err != nil {
				t.Errorf("Stop() on an exited child failed: %v", err)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("unexpected exit of the child was not logged")
}
