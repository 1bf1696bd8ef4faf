package inspect

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
	flowast "github.com/flowgraph/flowc/internal/ast"
)

func chainWorkflow() *flowast.Workflow {
	w := flowast.New("pipeline")
	w.Inputs = []flowast.PortDef{{Name: flowast.PortExecute, DataType: flowast.TStep, IsControlFlow: true}}
	w.Outputs = []flowast.PortDef{{Name: flowast.PortOnSuccess, DataType: flowast.TStep, IsControlFlow: true}}

	nt := &flowast.NodeType{
		Name:         "Step",
		FunctionName: "Step",
		Inputs:       []flowast.PortDef{{Name: flowast.PortExecute, DataType: flowast.TStep, IsControlFlow: true}},
		Outputs:      []flowast.PortDef{{Name: flowast.PortOnSuccess, DataType: flowast.TStep, IsControlFlow: true}},
		HasSuccessPort: true,
	}
	w.AddNodeType(nt)
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "Step"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "Step"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "b", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "b", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: flowast.Exit, Port: flowast.PortOnSuccess}})
	return w
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	w := chainWorkflow()
	an, err := flowanalyzer.Analyze(w)
	require.NoError(t, err)
	return New(w, an)
}

func TestNewExcludesStartAndExitFromOrder(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	require.Equal(t, []string{"a", "b"}, m.order)
}

func TestMoveCursorWraps(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.moveCursor(-1)
	require.Equal(t, 1, m.cursor)
	m.moveCursor(1)
	require.Equal(t, 0, m.cursor)
}

func TestEnterSwitchesToDetailView(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	nm := next.(Model)
	require.Equal(t, ViewDetail, nm.viewMode)

	id, ok := nm.selected()
	require.True(t, ok)
	require.Equal(t, "a", id)
}

func TestEscReturnsToListView(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.viewMode = ViewDetail
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	nm := next.(Model)
	require.Equal(t, ViewList, nm.viewMode)
}

func TestRenderListShowsEveryInstance(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	out := m.View()
	require.Contains(t, out, "a (Step)")
	require.Contains(t, out, "b (Step)")
}

func TestRenderDetailShowsWiring(t *testing.T) {
	t.Parallel()
	m := newTestModel(t)
	m.cursor = 1
	m.viewMode = ViewDetail
	out := m.View()
	require.Contains(t, out, "Instance b")
	require.Contains(t, out, "a")
}
