// Package inspect is flowc's interactive graph browser for the `flowc
// inspect` subcommand (spec §6.4's tooling boundary, SPEC_FULL.md §3's
// bubbletea/bubbles wiring) — the teacher's interactive pipeline
// dashboard, re-pointed at a workflow's node graph instead of a registry
// of pipelines.
package inspect

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// ViewMode determines which screen is rendered.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewHelp
)

// Model browses one workflow's instances, in analyzed topological order,
// showing each node's wiring on selection.
type Model struct {
	workflow *flowast.Workflow
	analysis *flowanalyzer.Analysis

	order    []string // instance IDs in display order
	viewMode ViewMode
	cursor   int

	// content scrolls the detail view's body, since a node with many
	// predecessors/successors can outgrow the terminal height.
	content viewport.Model

	width  int
	height int
}

// New builds a Model over an already-analyzed workflow.
func New(w *flowast.Workflow, an *flowanalyzer.Analysis) Model {
	var order []string
	for _, id := range an.Order {
		if id == flowast.Start || id == flowast.Exit {
			continue
		}
		order = append(order, id)
	}
	return Model{
		workflow: w,
		analysis: an,
		order:    order,
		content:  viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.order) {
		return "", false
	}
	return m.order[m.cursor], true
}
