package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/mlw/internal/mlw/config"
)

// validConfigFiles returns mlw config files in the working directory for
// shell completion of --config.
func validConfigFiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	configs, err := getAvailableConfigs()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	if len(configs) == 0 {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	}
	return configs, cobra.ShellCompDirectiveNoFileComp
}

// getAvailableConfigs scans the working directory for YAML files that
// decode as an mlw config.
func getAvailableConfigs() ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(cwd)
	if err != nil {
		return nil, err
	}

	var configs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		//nolint:gosec // G304: only files from the working directory are read
		data, err := os.ReadFile(filepath.Join(cwd, name))
		if err != nil {
			continue
		}
		if cfg, err := config.Parse(data); err == nil && cfg.ScriptType != "" {
			configs = append(configs, name)
		}
	}

	sort.Strings(configs)
	return configs, nil
}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for mlw.

To load completions:

Bash:

  $ source <(mlw completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ mlw completion bash > /etc/bash_completion.d/mlw
  # macOS:
  $ mlw completion bash > $(brew --prefix)/etc/bash_completion.d/mlw

Zsh:

  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ mlw completion zsh > "${fpath[1]}/_mlw"

  # You will need to start a new shell for this setup to take effect.

Fish:

  $ mlw completion fish | source

  # To load completions for each session, execute once:
  $ mlw completion fish > ~/.config/fish/completions/mlw.fish

PowerShell:

  PS> mlw completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> mlw completion powershell > mlw.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		switch args[0] {
		case "bash":
			err = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			err = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			err = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			err = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		if err != nil {
			// Error is logged but not fatal for completion generation
			cmd.PrintErrf("Error generating completion: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
