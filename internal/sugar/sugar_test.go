package sugar

import (
	"testing"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/stretchr/testify/require"
)

func linearPathWorkflow() *flowast.Workflow {
	w := flowast.New("linear")
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "B"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "b", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "b", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: flowast.Exit, Port: flowast.PortOnSuccess}})
	return w
}

func TestDetectSingleRoute(t *testing.T) {
	t.Parallel()

	w := linearPathWorkflow()
	macros := Detect(w)
	require.Len(t, macros, 1)
	require.Equal(t, []flowast.PathStep{{Node: "a", Route: "ok"}, {Node: "b", Route: "ok"}}, macros[0].Steps)
}

func TestValidDetectsStaleMacro(t *testing.T) {
	t.Parallel()

	w := linearPathWorkflow()
	macro := flowast.PathMacro{Steps: []flowast.PathStep{{Node: "a", Route: "ok"}, {Node: "b", Route: "ok"}}}
	require.True(t, Valid(w, macro))

	w.RemoveConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "b", Port: flowast.PortExecute}})
	require.False(t, Valid(w, macro))
}

func TestFilterStaleDropsBrokenMacro(t *testing.T) {
	t.Parallel()

	w := linearPathWorkflow()
	w.PathMacros = []flowast.PathMacro{
		{Steps: []flowast.PathStep{{Node: "a", Route: "ok"}, {Node: "b", Route: "ok"}}},
	}
	w.RemoveConnection(flowast.Connection{From: flowast.PortRef{Node: "b", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: flowast.Exit, Port: flowast.PortOnSuccess}})

	FilterStale(w)
	require.Empty(t, w.PathMacros)
}

func TestDetectBranchingNotPathable(t *testing.T) {
	t.Parallel()

	w := flowast.New("fanout")
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "B"})
	w.AddInstance(&flowast.NodeInstance{ID: "c", Type: "C"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})
	// a.onSuccess fans out to two targets: not pathable.
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "b", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "c", Port: flowast.PortExecute}})

	macros := Detect(w)
	require.Empty(t, macros)
}
