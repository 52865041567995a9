package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/config"
	"github.com/dimasma0305/mlw/internal/mlw/database"
	"github.com/dimasma0305/mlw/internal/mlw/socket"
	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

var (
	historyLimit  int
	historyAsJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent restarts",
	Long: `Show recent restart attempts with their trigger, outcome and duration.

The running watcher is asked first; when none answers the history database
is read directly.`,
	Example: `  # Last 20 restarts
  mlw history

  # Last 5 as JSON
  mlw history -n 5 --json`,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := loadHistory(currentRuntime(), historyLimit)
		if err != nil {
			log.Fatal("Failed to load history: ", err)
		}

		if historyAsJSON {
			if records == nil {
				records = []watchertypes.RestartRecord{}
			}
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				log.Fatal("Failed to marshal history to JSON: ", err)
			}
			fmt.Println(string(data))
			return
		}
		socket.PrintHistory(os.Stdout, records)
	},
}

// loadHistory asks the watcher over the socket and falls back to reading
// the database file
func loadHistory(rt config.Runtime, limit int) ([]watchertypes.RestartRecord, error) {
	client := socket.NewClient(rt.SocketPath)
	client.SetTimeout(2 * time.Second)
	records, err := client.History(limit)
	if err == nil {
		return records, nil
	}
	log.Debug("Control socket unavailable, reading %s: %v", rt.HistoryPath, err)

	if _, err := os.Stat(rt.HistoryPath); err != nil {
		return nil, nil
	}

	db := database.New(rt.HistoryPath, true)
	if err := db.Init(); err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	return db.GetRecentRestarts(limit)
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", socket.DefaultHistoryLimit, "Number of restarts to show")
	historyCmd.Flags().BoolVar(&historyAsJSON, "json", false, "Output history in JSON format")
}
