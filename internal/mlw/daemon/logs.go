package daemon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tail "github.com/hpcloud/tail"
)

// ShowRecentLogs writes the last n non-empty lines of logFile, if it exists
func ShowRecentLogs(w io.Writer, logFile string, n int) {
	lines, err := lastLines(logFile, n)
	if err != nil || len(lines) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "📋 Recent Activity (last %d lines from log):\n", len(lines))
	for _, line := range lines {
		fmt.Fprintf(w, "   %s\n", line)
	}
}

// lastLines keeps the trailing n non-empty lines. Lines are read without a
// length limit since child output can be long.
func lastLines(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	//nolint:gosec // G304: log file path is constructed by application
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	ring := make([]string, 0, n)
	reader := bufio.NewReader(f)
	for {
		raw, err := reader.ReadString('\n')
		if line := strings.TrimSpace(raw); line != "" {
			if len(ring) == n {
				ring = ring[1:]
			}
			ring = append(ring, line)
		}
		if err == io.EOF {
			return ring, nil
		}
		if err != nil {
			return ring, err
		}
	}
}

// FollowLogs copies new lines of logFile to w until ctx is done. When fromStart
// is false only lines written after the call are shown.
func FollowLogs(ctx context.Context, w io.Writer, logFile string, fromStart bool) error {
	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if fromStart {
		location = nil
	}

	t, err := tail.TailFile(logFile, tail.Config{
		ReOpen:    true,
		Follow:    true,
		MustExist: false,
		Poll:      true,
		Location:  location,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail log file: %w", err)
	}
	defer t.Cleanup()
	defer func() { _ = t.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return fmt.Errorf("log tail channel closed")
			}
			if line == nil {
				continue
			}
			if line.Err != nil {
				return fmt.Errorf("failed to read log file: %w", line.Err)
			}
			if strings.TrimSpace(line.Text) == "" {
				continue
			}
			fmt.Fprintln(w, line.Text)
		}
	}
}
