// Package cmd provides command-line interface commands for mlw
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/config"
	"github.com/dimasma0305/mlw/internal/mlw/daemon"
	"github.com/dimasma0305/mlw/internal/mlw/watcher"
)

var (
	configPath string
	genConfig  bool
	daemonMode bool

	pidFile     string
	logFile     string
	socketPath  string
	historyPath string
	noSocket    bool
	noHistory   bool
)

// rootCmd runs the watcher when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mlw",
	Short: "A file watcher for multi languages",
	Long: `mlw - restart your script whenever its sources change

mlw watches the paths listed in its config file and restarts the configured
script when files are created, modified or removed. Bursts of changes are
debounced into a single restart and paths matching ignore_pattern are skipped.

Supported script types: python, python2, node, lua, php, go, rust, sh`,
	Example: `  # Generate a default mlw.yaml
  mlw -g

  # Watch using mlw.yaml in the current directory
  mlw

  # Use another config file
  mlw -c services/api.yaml

  # Run in the background
  mlw --daemon`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
	Run: func(_ *cobra.Command, _ []string) {
		if genConfig {
			if err := config.Generate(configPath); err != nil {
				log.Fatal("Failed to generate config: ", err)
			}
			log.Info("Default configuration file generated at %s", configPath)
			return
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatal(fmt.Sprintf("Failed to load config: %v", err))
		}

		logger := log.New(cfg.Verbose || log.DebugEnabled())
		logger.Debug("Configuration loaded.")

		if err := runWatcher(cfg, currentRuntime(), logger); err != nil {
			log.Fatal(fmt.Sprintf("Watcher stopped: %v", err))
		}
	},
}

// runWatcher runs in the foreground or forks into the background. It
// returns when the watcher stops.
func runWatcher(cfg *config.Config, rt config.Runtime, logger *log.Logger) error {
	if rt.DaemonMode {
		parent, release, err := daemon.Reborn(rt)
		if err != nil {
			return err
		}
		if parent {
			return nil
		}
		defer func() { _ = release() }()
		logger.Info("🚀 mlw daemon started (PID: %d)", os.Getpid())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watcher.New(cfg, rt, logger).Run(ctx)
}

// currentRuntime builds the runtime settings from persistent flags
func currentRuntime() config.Runtime {
	return config.Runtime{
		DaemonMode:     daemonMode,
		PidFile:        pidFile,
		LogFile:        logFile,
		SocketEnabled:  !noSocket,
		SocketPath:     socketPath,
		HistoryEnabled: !noHistory,
		HistoryPath:    historyPath,
	}.WithDefaults()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&pidFile, "pid-file", config.DefaultRuntime.PidFile, "PID file location for daemon mode")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultRuntime.LogFile, "Log file location for daemon mode")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", config.DefaultRuntime.SocketPath, "Control socket location")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history-db", config.DefaultRuntime.HistoryPath, "Restart history database location")

	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Path to config file")
	rootCmd.Flags().BoolVarP(&genConfig, "gen-config", "g", false, "Generate a default config file")
	rootCmd.Flags().BoolVar(&daemonMode, "daemon", false, "Run the watcher in the background")
	rootCmd.Flags().BoolVar(&noSocket, "no-socket", false, "Disable the control socket")
	rootCmd.Flags().BoolVar(&noHistory, "no-history", false, "Disable the restart history database")

	_ = rootCmd.RegisterFlagCompletionFunc("config", validConfigFiles)
}
