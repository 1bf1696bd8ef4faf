package reemit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowgraph/flowc/internal/assembler"
	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/diagnostic"
)

const nodeTypeSource = `package workflows

// @step execute
// @input userID
// @step onSuccess
// @step onFailure
// @output user
func FetchUser(execute bool, userID string) (onSuccess bool, onFailure bool, user string) {
	return execute, !execute, "u-" + userID
}

// @step execute
// @input x
// @step onSuccess
// @step onFailure
// @output y
func Double(execute bool, x int) (onSuccess bool, onFailure bool, y int) {
	return execute, !execute, x * 2
}
`

const workflowSource = nodeTypeSource + `
// @node n1 FetchUser
// @node n2 Double
// @connect Start.execute -> n1.execute
// @connect n1.onSuccess -> n2.execute
// @connect n1.user -> n2.x
// @connect n2.onSuccess -> Exit.onSuccess
// @connect n2.y -> Exit.out
// @path n1 ok -> n2 -> Exit
// @input userID
// @output onSuccess
// @output out
// @retries 3
func ProcessOrder(userID string) (onSuccess bool, out int) {
	return true, 0
}
`

func assembleOne(t *testing.T, src string) *flowast.Workflow {
	t.Helper()
	sink := diagnostic.NewSink()
	res, err := assembler.AssembleSource("fixture.go", []byte(src), sink)
	require.NoError(t, err)
	require.False(t, sink.HasErrors(), "%v", sink.Errors())
	require.Len(t, res.Workflows, 1)
	return res.Workflows[0]
}

// TestWorkflowRoundTrip exercises spec §4.3's round-trip invariant and
// §4.8's "definitive contract": parsing the annotations reemit.Workflow
// regenerates from an AST, then re-assembling, yields an equivalent AST
// (order-insensitive on connections, macro-insensitive).
func TestWorkflowRoundTrip(t *testing.T) {
	t.Parallel()

	original := assembleOne(t, workflowSource)

	lines := Workflow(original)
	regenerated := nodeTypeSource + "\n" + Lines(lines) + `func ProcessOrder(userID string) (onSuccess bool, out int) {
	return true, 0
}
`
	roundTripped := assembleOne(t, regenerated)

	require.True(t, flowast.Equivalent(original, roundTripped),
		"original:\n%+v\nroundtripped:\n%+v\nannotations:\n%s", original, roundTripped, strings.Join(lines, "\n"))
}

func TestWorkflowRendersPathMacroInsteadOfExpandedConnections(t *testing.T) {
	t.Parallel()

	w := assembleOne(t, workflowSource)
	lines := Workflow(w)

	joined := strings.Join(lines, "\n")
	require.Contains(t, joined, "@path n1 ok -> n2 -> Exit")
	// The macro already implies Start.execute->n1.execute, n1.onSuccess->n2.execute,
	// and n2.onSuccess->Exit.onSuccess: those must not also appear as bare @connect lines.
	require.NotContains(t, joined, "@connect Start.execute -> n1.execute")
	require.NotContains(t, joined, "@connect n1.onSuccess -> n2.execute")
	require.NotContains(t, joined, "@connect n2.onSuccess -> Exit.onSuccess")
	// Non-control-flow data connections are never folded into the macro.
	require.Contains(t, joined, "@connect n1.user -> n2.x")
	require.Contains(t, joined, "@connect n2.y -> Exit.out")
}

func TestWorkflowRendersRetries(t *testing.T) {
	t.Parallel()

	w := assembleOne(t, workflowSource)
	lines := Workflow(w)
	require.Contains(t, strings.Join(lines, "\n"), "@retries 3")
}

func TestWorkflowDropsStaleMacro(t *testing.T) {
	t.Parallel()

	w := assembleOne(t, workflowSource)
	// Simulate an edit that removed the edge the macro's middle hop
	// implied: the macro is now stale and must not be re-emitted (spec
	// §4.5 "Filtering").
	w.RemoveConnection(flowast.Connection{
		From: flowast.PortRef{Node: "n1", Port: "onSuccess"},
		To:   flowast.PortRef{Node: "n2", Port: "execute"},
	})
	lines := Workflow(w)
	joined := strings.Join(lines, "\n")
	require.NotContains(t, joined, "@path")
}
