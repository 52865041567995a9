package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dimasma0305/mlw/internal/mlw/config"
)

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		flag      string
		shorthand string
		flagType  string
		defValue  string
	}{
		{name: "config", flag: "config", shorthand: "c", flagType: "string", defValue: config.DefaultConfigFile},
		{name: "gen-config", flag: "gen-config", shorthand: "g", flagType: "bool", defValue: "false"},
		{name: "daemon", flag: "daemon", flagType: "bool", defValue: "false"},
		{name: "no-history", flag: "no-history", flagType: "bool", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rootCmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("root command should have --%s flag", tt.flag)
			}
			if f.Shorthand != tt.shorthand {
				t.Errorf("--%s shorthand = %q, want %q", tt.flag, f.Shorthand, tt.shorthand)
			}
			if f.Value.Type() != tt.flagType {
				t.Errorf("--%s type = %q, want %q", tt.flag, f.Value.Type(), tt.flagType)
			}
			if f.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flag, f.DefValue, tt.defValue)
			}
		})
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"debug", "pid-file", "log-file", "socket", "history-db"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("root command should have persistent --%s flag", name)
		}
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := map[string]bool{"init": false, "status": false, "stop": false, "logs": false, "history": false, "restart": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command should have %q subcommand", name)
		}
	}
}

func TestCurrentRuntime(t *testing.T) {
	oldPid, oldLog, oldSocket, oldHistory := pidFile, logFile, socketPath, historyPath
	oldNoSocket, oldNoHistory, oldDaemon := noSocket, noHistory, daemonMode
	defer func() {
		pidFile, logFile, socketPath, historyPath = oldPid, oldLog, oldSocket, oldHistory
		noSocket, noHistory, daemonMode = oldNoSocket, oldNoHistory, oldDaemon
	}()

	pidFile, logFile, socketPath, historyPath = "", "/var/log/mlw.log", "", ""
	noSocket, noHistory, daemonMode = true, false, true

	want := config.Runtime{
		DaemonMode:     true,
		PidFile:        config.DefaultRuntime.PidFile,
		LogFile:        "/var/log/mlw.log",
		SocketEnabled:  false,
		SocketPath:     config.DefaultRuntime.SocketPath,
		HistoryEnabled: true,
		HistoryPath:    config.DefaultRuntime.HistoryPath,
	}
	if diff := cmp.Diff(want, currentRuntime()); diff != "" {
		t.Errorf("currentRuntime() mismatch (-want +got):\n%s", diff)
	}
}
