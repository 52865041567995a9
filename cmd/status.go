package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/daemon"
	"github.com/dimasma0305/mlw/internal/mlw/reload"
	"github.com/dimasma0305/mlw/internal/mlw/socket"
)

var statusAsJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watcher status",
	Long: `Display the state of the background daemon and, when a watcher is
reachable on the control socket, the state of the managed script.`,
	Example: `  # Show status
  mlw status

  # Show status in JSON format
  mlw status --json`,
	Run: func(_ *cobra.Command, _ []string) {
		rt := currentRuntime()

		client := socket.NewClient(rt.SocketPath)
		client.SetTimeout(2 * time.Second)
		live, liveErr := client.Status()

		if statusAsJSON {
			out := struct {
				Daemon  daemon.Status  `json:"daemon"`
				Watcher *reload.Status `json:"watcher,omitempty"`
			}{
				Daemon:  daemon.GetDaemonStatus(rt.PidFile),
				Watcher: live,
			}
			out.Daemon.LogFile = rt.LogFile

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				log.Fatal("Failed to marshal status to JSON: ", err)
			}
			fmt.Println(string(data))
			return
		}

		daemon.ShowStatus(os.Stdout, rt.PidFile, rt.LogFile)
		fmt.Println()

		if liveErr != nil {
			log.Debug("Control socket unavailable: %v", liveErr)
			fmt.Println("🔌 No watcher answering on", rt.SocketPath)
			return
		}
		socket.PrintStatus(os.Stdout, live)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusAsJSON, "json", false, "Output status in JSON format")
}
