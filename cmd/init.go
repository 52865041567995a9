package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/dimasma0305/mlw/internal/log"
	"github.com/dimasma0305/mlw/internal/mlw/config"
	"github.com/dimasma0305/mlw/internal/mlw/runner"
)

var (
	initConfigPath string
	initYes        bool
)

var initCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"i"},
	Short:   "Create a config file interactively",
	Long: `Create an mlw config file by answering a few questions.

With --yes the default template is written without prompting, which is the
same as running 'mlw -g'. An existing file is never overwritten.`,
	Example: `  # Answer prompts
  mlw init

  # Write the defaults
  mlw init --yes

  # Write to another location
  mlw init --config services/api.yaml`,
	Run: func(_ *cobra.Command, _ []string) {
		if _, err := os.Stat(initConfigPath); err == nil {
			log.Fatal(fmt.Sprintf("Config file already exists at %s", initConfigPath))
		}

		if initYes {
			if err := config.Generate(initConfigPath); err != nil {
				log.Fatal("Failed to generate config: ", err)
			}
			log.Info("Default configuration file generated at %s", initConfigPath)
			return
		}

		var answers initAnswers
		if err := survey.Ask(initQuestions(), &answers); err != nil {
			log.Fatal("Config generation canceled: ", err)
		}

		cfg, err := answers.toConfig()
		if err != nil {
			log.Fatal("Invalid answers: ", err)
		}

		content, err := config.Marshal(cfg)
		if err != nil {
			log.Fatal("Failed to render config: ", err)
		}
		if err := config.WriteConfig(initConfigPath, content); err != nil {
			log.Fatal("Failed to write config: ", err)
		}

		for _, p := range cfg.Path {
			if _, err := os.Stat(p); err != nil {
				log.InfoH2("Path %s does not exist yet, create it before running mlw", p)
			}
		}
		log.Info("Configuration written to %s", initConfigPath)
	},
}

type initAnswers struct {
	ScriptType    string `survey:"script_type"`
	Paths         string `survey:"paths"`
	ScriptArgs    string `survey:"script_args"`
	Delay         string `survey:"delay"`
	IgnorePattern string `survey:"ignore_pattern"`
	Verbose       bool   `survey:"verbose"`
}

func initQuestions() []*survey.Question {
	return []*survey.Question{
		{
			Name: "script_type",
			Prompt: &survey.Select{
				Message: "Script type:",
				Options: runner.SupportedScriptTypes(),
				Default: "node",
			},
		},
		{
			Name: "paths",
			Prompt: &survey.Input{
				Message: "Paths to watch (comma separated):",
				Default: "./src",
			},
			Validate: survey.Required,
		},
		{
			Name: "script_args",
			Prompt: &survey.Input{
				Message: "Extra script arguments (space separated, optional):",
			},
		},
		{
			Name: "delay",
			Prompt: &survey.Input{
				Message: "Delay between restarts in seconds:",
				Default: "2",
			},
			Validate: validateDelay,
		},
		{
			Name: "ignore_pattern",
			Prompt: &survey.Input{
				Message: "Ignore pattern (regular expression, optional):",
				Default: `.*\.git.*`,
			},
		},
		{
			Name: "verbose",
			Prompt: &survey.Confirm{
				Message: "Enable verbose logging?",
				Default: true,
			},
		},
	}
}

func validateDelay(ans interface{}) error {
	s, _ := ans.(string)
	d, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || d < 0 {
		return fmt.Errorf("delay must be a whole number of seconds >= 0")
	}
	return nil
}

func (a initAnswers) toConfig() (*config.Config, error) {
	delay, err := strconv.Atoi(strings.TrimSpace(a.Delay))
	if err != nil || delay < 0 {
		return nil, fmt.Errorf("invalid delay %q", a.Delay)
	}

	paths := splitList(a.Paths, ",")
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one path is required")
	}

	return &config.Config{
		Path:          paths,
		ScriptArgs:    strings.Fields(a.ScriptArgs),
		Delay:         delay,
		Verbose:       a.Verbose,
		IgnorePattern: strings.TrimSpace(a.IgnorePattern),
		ScriptType:    a.ScriptType,
	}, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initConfigPath, "config", "c", config.DefaultConfigFile, "Path of the config file to create")
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Write the default config without prompting")
}
