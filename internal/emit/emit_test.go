package emit

import (
	"testing"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/stretchr/testify/require"
)

func portDefs(ports ...flowast.PortDef) []flowast.PortDef { return ports }

func branchingType(name string, extraIn, extraOut flowast.PortDef) *flowast.NodeType {
	nt := &flowast.NodeType{
		Name:         name,
		FunctionName: name,
		Inputs: portDefs(
			flowast.PortDef{Name: flowast.PortExecute, DataType: flowast.TStep, IsControlFlow: true},
			extraIn,
		),
		Outputs: portDefs(
			flowast.PortDef{Name: flowast.PortOnSuccess, DataType: flowast.TStep, IsControlFlow: true},
			flowast.PortDef{Name: flowast.PortOnFailure, DataType: flowast.TStep, IsControlFlow: true},
			extraOut,
		),
		HasSuccessPort: true,
		HasFailurePort: true,
	}
	return nt
}

func plainBranchingType(name string) *flowast.NodeType {
	return &flowast.NodeType{
		Name:         name,
		FunctionName: name,
		Inputs: portDefs(
			flowast.PortDef{Name: flowast.PortExecute, DataType: flowast.TStep, IsControlFlow: true},
		),
		Outputs: portDefs(
			flowast.PortDef{Name: flowast.PortOnSuccess, DataType: flowast.TStep, IsControlFlow: true},
			flowast.PortDef{Name: flowast.PortOnFailure, DataType: flowast.TStep, IsControlFlow: true},
		),
		HasSuccessPort: true,
		HasFailurePort: true,
	}
}

func branchWorkflow() *flowast.Workflow {
	w := flowast.New("classify")
	w.Inputs = portDefs(
		flowast.PortDef{Name: flowast.PortExecute, DataType: flowast.TStep, IsControlFlow: true},
		flowast.PortDef{Name: "x", DataType: flowast.TNumber},
	)
	w.Outputs = portDefs(
		flowast.PortDef{Name: flowast.PortOnSuccess, DataType: flowast.TStep, IsControlFlow: true},
		flowast.PortDef{Name: "result", DataType: flowast.TNumber},
	)
	nt := branchingType("Classify",
		flowast.PortDef{Name: "x", DataType: flowast.TNumber},
		flowast.PortDef{Name: "y", DataType: flowast.TNumber},
	)
	w.AddNodeType(nt)
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "Classify"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: "x"}, To: flowast.PortRef{Node: "a", Port: "x"}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: flowast.Exit, Port: flowast.PortOnSuccess}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: "y"}, To: flowast.PortRef{Node: flowast.Exit, Port: "result"}})
	return w
}

func TestGenerateBranchingWorkflow(t *testing.T) {
	t.Parallel()

	w := branchWorkflow()
	an, err := flowanalyzer.Analyze(w)
	require.NoError(t, err)

	src, err := Generate(w, an, Options{})
	require.NoError(t, err)

	require.Contains(t, src, "func WorkflowClassify(ctx context.Context, ec execctx.Context, execute bool, params map[string]any) (map[string]any, error) {")
	require.Contains(t, src, "in_a := ClassifyInput{")
	require.Contains(t, src, "res_a, err_a := Classify(ctx, ec, in_a)")
	require.Contains(t, src, "X: params[\"x\"],")
	require.Contains(t, src, "a_success bool")
	require.Contains(t, src, "result[\"onSuccess\"] = a_success")
	require.Contains(t, src, "result[\"result\"] = v_a_y")
	require.Contains(t, src, "ec.CheckAborted(\"a\")")
	require.Contains(t, src, "execctx.RecursionLimit")
}

func TestGenerateProductionSuppressesRunningEvent(t *testing.T) {
	t.Parallel()

	w := branchWorkflow()
	an, err := flowanalyzer.Analyze(w)
	require.NoError(t, err)

	src, err := Generate(w, an, Options{Production: true})
	require.NoError(t, err)
	require.NotContains(t, src, "execctx.Running")

	src2, err := Generate(w, an, Options{})
	require.NoError(t, err)
	require.Contains(t, src2, "execctx.Running")
}

func chainedWorkflow() *flowast.Workflow {
	w := flowast.New("chain")
	w.Inputs = portDefs(flowast.PortDef{Name: flowast.PortExecute, DataType: flowast.TStep, IsControlFlow: true})
	w.Outputs = portDefs(flowast.PortDef{Name: flowast.PortOnSuccess, DataType: flowast.TStep, IsControlFlow: true})
	w.AddNodeType(plainBranchingType("A"))
	w.AddNodeType(plainBranchingType("B"))
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "b", Type: "B"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: "b", Port: flowast.PortExecute}})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "b", Port: flowast.PortOnSuccess}, To: flowast.PortRef{Node: flowast.Exit, Port: flowast.PortOnSuccess}})
	return w
}

func TestGenerateChainIsFlatNotNested(t *testing.T) {
	t.Parallel()

	w := chainedWorkflow()
	an, err := flowanalyzer.Analyze(w)
	require.NoError(t, err)

	src, err := Generate(w, an, Options{})
	require.NoError(t, err)

	require.Contains(t, src, "ran_b := a_success")
	require.Contains(t, src, "if ran_b {")
	require.Contains(t, src, "result[\"onSuccess\"] = b_success")
}
