package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flowgraph/flowc/internal/compile"
)

func newGenerateCmd(app *AppContext, root *rootFlags) *cobra.Command {
	var workflowName, outDir string

	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Compile every workflow in an annotated Go source file into its procedure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, app, root, args[0], workflowName, outDir)
		},
	}
	cmd.Flags().StringVar(&workflowName, "workflow", "", "Generate only the named workflow")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write generated files into (stdout if empty)")
	return cmd
}

func runGenerate(cmd *cobra.Command, app *AppContext, root *rootFlags, path, workflowName, outDir string) error {
	opts, err := loadOptions(root)
	if err != nil {
		return err
	}

	result, err := compile.Compile(path, opts)
	if err != nil {
		return newCommandError("generate", path, err, "Fix the reported diagnostics and re-run.")
	}

	out := cmd.OutOrStdout()
	printDiagnostics(out, result.Parse.Warnings, result.Parse.Errors)

	for name, vr := range result.Validate {
		if workflowName != "" && name != workflowName {
			continue
		}
		if len(vr.Errors) > 0 {
			printDiagnostics(out, vr.Warnings, vr.Errors)
			continue
		}
		src := result.Code[name]
		if outDir == "" {
			fmt.Fprintln(out, src)
			continue
		}
		dest := filepath.Join(outDir, name+"_generated.go")
		if err := os.WriteFile(dest, []byte(src), 0o644); err != nil {
			return newCommandError("generate", "writing "+dest, err, "Check that the output directory exists and is writable.")
		}
		fmt.Fprintf(out, "wrote %s\n", dest)
	}
	return nil
}
