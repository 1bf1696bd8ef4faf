package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
	"github.com/flowgraph/flowc/internal/compile"
	"github.com/flowgraph/flowc/internal/grammar"
	"github.com/flowgraph/flowc/internal/tui/inspect"
)

func newInspectCmd(app *AppContext, root *rootFlags) *cobra.Command {
	var workflowName string
	var showGrammar bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse a workflow's analyzed graph, or print the annotation grammar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showGrammar {
				return runInspectGrammar(cmd)
			}
			if len(args) != 1 {
				return newCommandError("inspect", "checking arguments", fmt.Errorf("a file argument is required unless --grammar is set"),
					"Pass the annotated Go source file to browse, or use --grammar to print the language reference instead.")
			}
			return runInspect(args[0], workflowName)
		},
	}
	cmd.Flags().StringVar(&workflowName, "workflow", "", "Workflow to browse (defaults to the first one found)")
	cmd.Flags().BoolVar(&showGrammar, "grammar", false, "Print every annotation's EBNF production instead of launching the browser")
	return cmd
}

func runInspectGrammar(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for _, rule := range grammar.Grammars {
		fmt.Fprintln(out, rule.EBNF())
	}
	return nil
}

func runInspect(path, workflowName string) error {
	pr, err := compile.Parse(path)
	if err != nil {
		return newCommandError("inspect", "reading "+path, err, "Check that the file contains valid Go source.")
	}
	if len(pr.Workflows) == 0 {
		return newCommandError("inspect", "selecting a workflow", fmt.Errorf("no workflows found in %s", path),
			"Check that the file declares at least one @node-annotated function.")
	}

	w := pr.Workflows[0]
	if workflowName != "" {
		found := false
		for _, candidate := range pr.Workflows {
			if candidate.Name == workflowName {
				w = candidate
				found = true
				break
			}
		}
		if !found {
			return newCommandError("inspect", "selecting a workflow", fmt.Errorf("no workflow named %q in %s", workflowName, path),
				"Check the --workflow value against the names printed by 'flowc parse'.")
		}
	}

	an, err := flowanalyzer.Analyze(w)
	if err != nil {
		return newCommandError("inspect", "analyzing "+w.Name, err, "Resolve the reported structural error and re-run.")
	}

	model := inspect.New(w, an)
	program := tea.NewProgram(model)
	_, err = program.Run()
	return err
}
