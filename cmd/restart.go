package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/socket"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the script now",
	Long: `Ask the running watcher to restart its script immediately, without
waiting for a file change. The restart goes through the watcher's event loop
so it never overlaps a change triggered restart.`,
	Example: `  mlw restart`,
	Run: func(_ *cobra.Command, _ []string) {
		client := socket.NewClient(currentRuntime().SocketPath)
		if err := client.Restart(); err != nil {
			log.Fatal("Failed to restart script: ", err)
		}
		log.Info("✅ Script restarted")
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
}
