package socket

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dimasma0305/mlw/internal/mlw/reload"
	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

// PrintStatus writes a human readable status report
func PrintStatus(w io.Writer, st *reload.Status) {
	fmt.Fprintln(w, "🔍 mlw Watcher Status")
	fmt.Fprintln(w, "==========================================")

	if st.Running {
		fmt.Fprintln(w, "🟢 Script: RUNNING")
	} else {
		fmt.Fprintln(w, "🔴 Script: STOPPED")
	}

	fmt.Fprintf(w, "📜 Script Type: %s\n", st.ScriptType)
	fmt.Fprintf(w, "📁 Watched Paths: %s\n", strings.Join(st.Paths, ", "))

	if len(st.PIDs) > 0 {
		pids := make([]string, len(st.PIDs))
		for i, pid := range st.PIDs {
			pids[i] = fmt.Sprint(pid)
		}
		fmt.Fprintf(w, "🔢 PIDs: %s\n", strings.Join(pids, ", "))
	}

	fmt.Fprintf(w, "🔄 Restarts: %d\n", st.Restarts)
	if !st.StartedAt.IsZero() {
		fmt.Fprintf(w, "⏱️  Started: %s\n", st.StartedAt.Format("2006-01-02 15:04:05"))
	}
	if !st.LastTrigger.IsZero() && st.LastTrigger.After(st.StartedAt) {
		fmt.Fprintf(w, "⚡ Last Trigger: %s\n", st.LastTrigger.Format("2006-01-02 15:04:05"))
	}
	if st.LastError != "" {
		fmt.Fprintf(w, "❌ Last Error: %s\n", st.LastError)
	}
}

// PrintHistory writes restart records, newest first
func PrintHistory(w io.Writer, records []watchertypes.RestartRecord) {
	fmt.Fprintf(w, "📋 Restart History (last %d entries)\n", len(records))
	fmt.Fprintln(w, "==========================================")

	if len(records) == 0 {
		fmt.Fprintln(w, "No restarts recorded.")
		return
	}

	for _, rec := range records {
		icon := "✅"
		if rec.Status == watchertypes.RestartFailed {
			icon = "❌"
		}

		line := fmt.Sprintf("[%s] %s %s %s", rec.Timestamp.Format("15:04:05"), icon, rec.ScriptType, rec.Trigger)
		if d := formatDuration(rec.Duration); d != "" {
			line += fmt.Sprintf(" (%s)", d)
		}
		if rec.Error != "" {
			line += ": " + rec.Error
		}
		fmt.Fprintln(w, line)
	}
}

// formatDuration formats milliseconds as a short human string
func formatDuration(ms int64) string {
	if ms <= 0 {
		return ""
	}
	d := time.Duration(ms) * time.Millisecond
	if d >= time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dms", ms)
}
