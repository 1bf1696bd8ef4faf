package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgraph/flowc/internal/compile"
)

func newValidateCmd(app *AppContext, root *rootFlags) *cobra.Command {
	var workflowName string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate every workflow an annotated Go source file declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, app, root, args[0], workflowName)
		},
	}
	cmd.Flags().StringVar(&workflowName, "workflow", "", "Validate only the named workflow")
	return cmd
}

func runValidate(cmd *cobra.Command, app *AppContext, root *rootFlags, path, workflowName string) error {
	opts, err := loadOptions(root)
	if err != nil {
		return err
	}

	pr, err := compile.Parse(path)
	if err != nil {
		return newCommandError("validate", "reading "+path, err, "Check that the file contains valid Go source.")
	}

	out := cmd.OutOrStdout()
	printDiagnostics(out, pr.Warnings, pr.Errors)

	hadErrors := len(pr.Errors) > 0
	for _, w := range pr.Workflows {
		if workflowName != "" && w.Name != workflowName {
			continue
		}
		vr := compile.Validate(w, opts)
		fmt.Fprintf(out, "%s: %d errors, %d warnings\n", w.Name, len(vr.Errors), len(vr.Warnings))
		printDiagnostics(out, vr.Warnings, vr.Errors)
		if len(vr.Errors) > 0 {
			hadErrors = true
		}
	}

	if hadErrors {
		return newCommandError("validate", path, fmt.Errorf("one or more workflows failed validation"),
			"Resolve the errors listed above and re-run.")
	}
	return nil
}
