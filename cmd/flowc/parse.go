package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgraph/flowc/internal/compile"
	"github.com/flowgraph/flowc/internal/diagnostic"
)

func newParseCmd(app *AppContext, root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse annotated Go source into its workflows and node types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, app, args[0])
		},
	}
	return cmd
}

func runParse(cmd *cobra.Command, app *AppContext, path string) error {
	res, err := compile.Parse(path)
	if err != nil {
		return newCommandError("parse", "reading "+path, err, "Check that the file contains valid Go source.")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "workflows: %d, node types: %d\n", len(res.Workflows), len(res.NodeTypes))
	for _, w := range res.Workflows {
		fmt.Fprintf(out, "  workflow %s: %d instances, %d connections\n", w.Name, len(w.Instances), len(w.Connections))
	}
	for name := range res.NodeTypes {
		fmt.Fprintf(out, "  node type %s\n", name)
	}
	printDiagnostics(out, res.Warnings, res.Errors)

	if len(res.Errors) > 0 {
		app.Logger.Warn("parse completed with errors")
	}
	return nil
}

func printDiagnostics(out interface{ Write([]byte) (int, error) }, warnings, errs []diagnostic.Diagnostic) {
	for _, d := range warnings {
		fmt.Fprintln(out, d.String())
	}
	for _, d := range errs {
		fmt.Fprintln(out, d.String())
	}
}
