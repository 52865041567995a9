package daemon

import (
	"fmt"
	"io"
)

// ShowStatus writes a human readable daemon status for pidFile to w and
// returns the status it reported
func ShowStatus(w io.Writer, pidFile, logFile string) Status {
	status := GetDaemonStatus(pidFile)
	status.LogFile = logFile

	fmt.Fprintln(w, "🔍 mlw Daemon Status")
	fmt.Fprintln(w, "==========================================")

	switch status.State {
	case StateRunning:
		fmt.Fprintln(w, "🟢 Status: RUNNING (Daemon Mode)")
		fmt.Fprintf(w, "📄 Process ID: %d\n", status.PID)
		fmt.Fprintf(w, "📄 PID File: %s\n", pidFile)
		fmt.Fprintf(w, "📝 Log File: %s\n", logFile)
		ShowRecentLogs(w, logFile, 5)

	case StateDead:
		fmt.Fprintln(w, "🟡 Status: STOPPED (Stale PID file found)")
		fmt.Fprintf(w, "💬 %s\n", status.Message)
		fmt.Fprintln(w, "🔧 Suggestion: Run 'mlw --daemon' to start a new daemon")

	case StateStopped:
		fmt.Fprintln(w, "⚫ Status: NOT RUNNING")
		fmt.Fprintf(w, "📄 PID File: %s (not found)\n", pidFile)
		fmt.Fprintln(w, "🔧 Suggestion: Run 'mlw --daemon' to start the daemon")

	default:
		fmt.Fprintln(w, "🔴 Status: ERROR")
		fmt.Fprintf(w, "💬 %s\n", status.Message)
		fmt.Fprintf(w, "📄 PID File: %s\n", pidFile)
	}

	return status
}
