package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgraph/flowc/internal/genopts"
	"github.com/flowgraph/flowc/internal/logger"
)

// AppContext bundles the dependencies every subcommand needs, built once
// in main and threaded through via each command's closure — the same
// shape the teacher's cmd/streamy uses for its use cases and logger.
type AppContext struct {
	Logger *logger.Logger
}

type rootFlags struct {
	verbose    bool
	configPath string
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "flowc",
		Short:         "flowc compiles annotated Go doc comments into dataflow workflow procedures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "flowc.yaml", "Path to a generation options config file")

	cmd.AddCommand(newParseCmd(app, flags))
	cmd.AddCommand(newValidateCmd(app, flags))
	cmd.AddCommand(newGenerateCmd(app, flags))
	cmd.AddCommand(newAnnotationsCmd(app, flags))
	cmd.AddCommand(newInspectCmd(app, flags))

	return cmd
}

func loadOptions(flags *rootFlags) (genopts.Options, error) {
	opts, err := genopts.Load(flags.configPath)
	if err != nil {
		return genopts.Options{}, newCommandError("load options", "reading "+flags.configPath, err,
			"Check the file's YAML syntax and field names against flowc.yaml's documented keys.")
	}
	return opts, nil
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error { return e.cause }
