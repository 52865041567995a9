package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/daemon"
	"github.com/dimasma0305/mlw/internal/mlw/runner"
)

var stopGrace time.Duration

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the watcher daemon",
	Long: `Stop the background watcher. The daemon receives SIGTERM, stops its
script and exits; it is killed if it is still alive after the grace period.`,
	Example: `  # Stop the daemon
  mlw stop

  # Stop with custom PID file
  mlw stop --pid-file /custom/path/mlw.pid`,
	Run: func(_ *cobra.Command, _ []string) {
		rt := currentRuntime()

		log.Info("🛑 Stopping mlw daemon...")
		if err := daemon.StopDaemon(rt.PidFile, stopGrace); err != nil {
			log.Fatal("Failed to stop daemon: ", err)
		}
		log.Info("✅ mlw daemon stopped successfully")
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)

	// the daemon itself waits up to runner.DefaultGracePeriod for its script
	stopCmd.Flags().DurationVar(&stopGrace, "grace", runner.DefaultGracePeriod+5*time.Second, "Time to wait before killing the daemon")
}
