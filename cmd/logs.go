package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/daemon"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show daemon logs",
	Long:  `Show the most recent lines of the daemon log file, optionally following new output.`,
	Example: `  # Show the last 20 lines
  mlw logs

  # Follow the log
  mlw logs -f`,
	Run: func(_ *cobra.Command, _ []string) {
		rt := currentRuntime()

		if _, err := os.Stat(rt.LogFile); err != nil && !logsFollow {
			log.Fatal(fmt.Sprintf("Log file not found: %s", rt.LogFile))
		}

		daemon.ShowRecentLogs(os.Stdout, rt.LogFile, logsLines)
		if !logsFollow {
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("📡 Following %s (Ctrl+C to stop)", rt.LogFile)
		if err := daemon.FollowLogs(ctx, os.Stdout, rt.LogFile, false); err != nil {
			log.Fatal("Failed to follow logs: ", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 20, "Number of recent lines to show")
}
