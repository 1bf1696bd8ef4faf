package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/compile"
)

func newAnnotationsCmd(app *AppContext, root *rootFlags) *cobra.Command {
	var workflowName string
	var inPlace bool
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "annotations <file>",
		Short: "Regenerate a workflow's canonical annotation lines from its current graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotations(cmd, args[0], workflowName, inPlace, showDiff)
		},
	}
	cmd.Flags().StringVar(&workflowName, "workflow", "", "Workflow to regenerate annotations for (required)")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "Splice the regenerated block back into the source file")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print the unified diff instead of writing (implies --in-place)")
	return cmd
}

func runAnnotations(cmd *cobra.Command, path, workflowName string, inPlace, showDiff bool) error {
	if workflowName == "" {
		return newCommandError("annotations", "resolving target workflow", fmt.Errorf("--workflow is required"),
			"Pass --workflow <name> to select which workflow's annotations to regenerate.")
	}

	pr, err := compile.Parse(path)
	if err != nil {
		return newCommandError("annotations", "reading "+path, err, "Check that the file contains valid Go source.")
	}

	var w *flowast.Workflow
	for _, candidate := range pr.Workflows {
		if candidate.Name == workflowName {
			w = candidate
			break
		}
	}
	if w == nil {
		return newCommandError("annotations", "resolving target workflow", fmt.Errorf("no workflow named %q in %s", workflowName, path),
			"Check the --workflow value against the names printed by 'flowc parse'.")
	}

	if !inPlace && !showDiff {
		fmt.Fprint(cmd.OutOrStdout(), compile.GenerateAnnotations(w))
		return nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return newCommandError("annotations", "reading "+path, err, "Check file permissions.")
	}
	result, err := compile.GenerateInPlace(path, src, w)
	if err != nil {
		return newCommandError("annotations", "splicing "+path, err, "Ensure the workflow's function still carries its original doc comment.")
	}
	if !result.HasChanges {
		fmt.Fprintln(cmd.OutOrStdout(), "no changes")
		return nil
	}
	if showDiff {
		fmt.Fprint(cmd.OutOrStdout(), result.Diff)
		return nil
	}
	if err := os.WriteFile(path, []byte(result.Code), 0o644); err != nil {
		return newCommandError("annotations", "writing "+path, err, "Check file permissions.")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", path)
	return nil
}
