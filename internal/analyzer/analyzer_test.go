package analyzer

import (
	"testing"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/stretchr/testify/require"
)

func stepNodeType(name string) *flowast.NodeType {
	return &flowast.NodeType{
		Name:         name,
		FunctionName: name,
		Inputs:       PortDefs(flowast.PortDef{Name: flowast.PortExecute, DataType: flowast.TStep, IsControlFlow: true}),
	}
}

// PortDefs is a tiny variadic helper so test fixtures can build port
// slices inline without repeating []flowast.PortDef{...} everywhere.
func PortDefs(ports ...flowast.PortDef) []flowast.PortDef { return ports }

func branchingNodeType(name string) *flowast.NodeType {
	return &flowast.NodeType{
		Name:           name,
		FunctionName:   name,
		Inputs:         PortDefs(flowast.PortDef{Name: flowast.PortExecute, DataType: flowast.TStep, IsControlFlow: true}),
		Outputs:        PortDefs(
			flowast.PortDef{Name: flowast.PortOnSuccess, DataType: flowast.TStep, IsControlFlow: true},
			flowast.PortDef{Name: flowast.PortOnFailure, DataType: flowast.TStep, IsControlFlow: true},
		),
		HasSuccessPort: true,
		HasFailurePort: true,
	}
}

func linearWorkflow() *flowast.Workflow {
	w := flowast.New("linear")
	w.AddNodeType(stepNodeType("A"))
	w.AddNodeType(stepNodeType("B"))
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "B"})
	w.AddConnection(flowast.Connection{
		From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute},
		To:   flowast.PortRef{Node: "a", Port: flowast.PortExecute},
	})
	w.AddConnection(flowast.Connection{
		From: flowast.PortRef{Node: "a", Port: flowast.PortExecute},
		To:   flowast.PortRef{Node: "b", Port: flowast.PortExecute},
	})
	return w
}

func TestAnalyzeLinearOrder(t *testing.T) {
	t.Parallel()

	w := linearWorkflow()
	a, err := Analyze(w)
	require.NoError(t, err)
	require.Equal(t, []string{flowast.Start, "a", "b", flowast.Exit}, a.Order)
}

func TestAnalyzeSelfCycle(t *testing.T) {
	t.Parallel()

	w := flowast.New("cycle")
	w.AddNodeType(stepNodeType("A"))
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddConnection(flowast.Connection{
		From: flowast.PortRef{Node: "a", Port: flowast.PortExecute},
		To:   flowast.PortRef{Node: "a", Port: flowast.PortExecute},
	})

	_, err := Analyze(w)
	require.Error(t, err)
	require.Contains(t, err.Error(), "a")
}

func TestAnalyzeTwoNodeCycle(t *testing.T) {
	t.Parallel()

	w := flowast.New("cycle2")
	w.AddNodeType(stepNodeType("A"))
	w.AddNodeType(stepNodeType("B"))
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "B"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: "result"}, To: flowast.PortRef{Node: "b", Port: "x"}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "b", Port: "y"}, To: flowast.PortRef{Node: "a", Port: "x"}})

	_, err := Analyze(w)
	require.Error(t, err)
	require.Contains(t, err.Error(), "a")
	require.Contains(t, err.Error(), "b")
}

func TestAnalyzeBranchingWithNonTakenRegion(t *testing.T) {
	t.Parallel()

	w := flowast.New("branch")
	w.AddNodeType(branchingNodeType("A"))
	w.AddNodeType(stepNodeType("B"))
	w.AddNodeType(stepNodeType("C"))
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "B"})
	w.AddInstance(&flowast.NodeInstance{ID: "c", Type: "C"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "b", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnFailure}, To: flowast.PortRef{Node: "c", Port: flowast.PortExecute}})

	a, err := Analyze(w)
	require.NoError(t, err)
	require.True(t, a.Branching["a"])
	require.Equal(t, []string{"b"}, a.Regions["a"].Success)
	require.Equal(t, []string{"c"}, a.Regions["a"].Failure)
	require.True(t, a.SuccessFlagNeeded["a"])
}

func TestAnalyzePromotion(t *testing.T) {
	t.Parallel()

	// a branches to b (success) / c (failure); d sits inside b's region
	// but reads a port fed from e, a top-level node outside every region
	// and not a — it must be promoted to top level.
	w := flowast.New("promote")
	w.AddNodeType(branchingNodeType("A"))
	w.AddNodeType(stepNodeType("B"))
	w.AddNodeType(stepNodeType("C"))
	w.AddNodeType(stepNodeType("E"))
	dt := stepNodeType("D")
	dt.Inputs = append(dt.Inputs, flowast.PortDef{Name: "x", DataType: flowast.TNumber})
	w.AddNodeType(dt)

	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "B"})
	w.AddInstance(&flowast.NodeInstance{ID: "c", Type: "C"})
	w.AddInstance(&flowast.NodeInstance{ID: "d", Type: "D"})
	w.AddInstance(&flowast.NodeInstance{ID: "e", Type: "E"})

	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "b", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnFailure}, To: flowast.PortRef{Node: "c", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "b", Port: flowast.PortExecute}, To: flowast.PortRef{Node: "d", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "e", Port: "out"}, To: flowast.PortRef{Node: "d", Port: "x"}})

	a, err := Analyze(w)
	require.NoError(t, err)
	require.True(t, a.Promoted["d"])
	require.NotContains(t, a.Regions["a"].Success, "d")
}

func TestAnalyzeChainFlattening(t *testing.T) {
	t.Parallel()

	w := flowast.New("chain")
	w.AddNodeType(branchingNodeType("A"))
	w.AddNodeType(branchingNodeType("B"))
	w.AddNodeType(branchingNodeType("C"))
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "B"})
	w.AddInstance(&flowast.NodeInstance{ID: "c", Type: "C"})

	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "b", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "b", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "c", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "c", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: flowast.Exit, Port: flowast.PortOnSuccess}})

	a, err := Analyze(w)
	require.NoError(t, err)
	require.Len(t, a.Chains, 1)
	require.Equal(t, []string{"a", "b", "c"}, a.Chains[0].Members)
	require.True(t, a.SuccessFlagNeeded["a"])
	require.True(t, a.SuccessFlagNeeded["b"])
}
