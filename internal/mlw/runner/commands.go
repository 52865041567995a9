package runner

import (
	"sort"

	"github.com/dimasma0305/mlw/internal/mlw/errors"
)

// Command is the executable and the argument prefix used for a script type
type Command struct {
	Executable  string
	DefaultArgs []string
}

// builtinCommands is the closed set of supported script types
var builtinCommands = map[string]Command{
	// Interpreted languages
	"python":  {Executable: "python3"},
	"python2": {Executable: "python2"},
	"node":    {Executable: "node"},
	"lua":     {Executable: "lua"},
	"php":     {Executable: "php"},

	// Compiled languages
	"go":   {Executable: "go", DefaultArgs: []string{"run"}},
	"rust": {Executable: "cargo", DefaultArgs: []string{"run", "--"}},

	// Shell
	"sh": {Executable: "sh"},
}

// ResolveCommand maps a script type to its command. Unknown types are an error.
func ResolveCommand(scriptType string) (Command, error) {
	return resolve(builtinCommands, scriptType)
}

func resolve(table map[string]Command, scriptType string) (Command, error) {
	if scriptType == "" {
		return Command{}, errors.ErrMissingScriptType
	}
	cmd, ok := table[scriptType]
	if !ok {
		return Command{}, errors.Wrapf(errors.ErrUnsupportedScriptType, "%q", scriptType)
	}
	return cmd, nil
}

// SupportedScriptTypes lists the known script types in sorted order
func SupportedScriptTypes() []string {
	types := make([]string, 0, len(builtinCommands))
	for name := range builtinCommands {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// BuildArgs composes the final argument list: default args, then the
// watched path, then the user supplied extra args.
func BuildArgs(defaults []string, path string, extra []string) []string {
	args := make([]string, 0, len(defaults)+1+len(extra))
	args = append(args, defaults...)
	args = append(args, path)
	args = append(args, extra...)
	return args
}
