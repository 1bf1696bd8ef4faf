package validate

import (
	"testing"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/stretchr/testify/require"
)

func TestValidateUnknownNodeTypeSuggestsCandidate(t *testing.T) {
	t.Parallel()

	w := flowast.New("wf")
	w.AddNodeType(&flowast.NodeType{Name: "FetchUser", FunctionName: "FetchUser"})
	w.AddInstance(&flowast.NodeInstance{ID: "n1", Type: "FetchUsr"})

	sink := Validate(w, Options{})
	errs := sink.Errors()
	require.Len(t, errs, 1)
	require.Equal(t, "UNKNOWN_NODE_TYPE", errs[0].Code)
	require.Contains(t, errs[0].Suggestions, "FetchUser")
}

func TestValidateUnannotatedHint(t *testing.T) {
	t.Parallel()

	w := flowast.New("wf")
	w.AddInstance(&flowast.NodeInstance{ID: "n1", Type: "HelperFunc"})

	sink := Validate(w, Options{KnownFunctions: []string{"HelperFunc"}})
	errs := sink.Errors()
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Message, "no nodeType annotation")
	require.Empty(t, errs[0].Suggestions)
}

func TestValidateCascadeDedup(t *testing.T) {
	t.Parallel()

	w := flowast.New("wf")
	w.AddInstance(&flowast.NodeInstance{ID: "n1", Type: "Missing"})
	w.AddInstance(&flowast.NodeInstance{ID: "n2", Type: "Missing"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "n1", Port: "out"}, To: flowast.PortRef{Node: "n2", Port: "in"}})

	sink := Validate(w, Options{})
	typeErrs := 0
	for _, d := range sink.Errors() {
		if d.Code == "UNKNOWN_NODE_TYPE" {
			typeErrs++
		}
		require.NotEqual(t, "UNKNOWN_SOURCE_PORT", d.Code)
		require.NotEqual(t, "UNKNOWN_TARGET_PORT", d.Code)
	}
	require.Equal(t, 1, typeErrs)
}

func TestValidateAsyncPromotion(t *testing.T) {
	t.Parallel()

	w := flowast.New("wf")
	w.AddNodeType(&flowast.NodeType{Name: "Slow", FunctionName: "Slow", IsAsync: true})
	w.AddInstance(&flowast.NodeInstance{ID: "n1", Type: "Slow"})

	sink := Validate(w, Options{})
	require.True(t, w.Async)
	warns := sink.Warnings()
	require.Len(t, warns, 1)
	require.Equal(t, "ASYNC_PROMOTED", warns[0].Code)
}

func TestValidateCycleReported(t *testing.T) {
	t.Parallel()

	w := flowast.New("wf")
	w.AddNodeType(&flowast.NodeType{Name: "A", FunctionName: "A"})
	w.AddInstance(&flowast.NodeInstance{ID: "a", Type: "A"})
	w.AddConnection(flowast.Connection{From: flowast.PortRef{Node: "a", Port: flowast.PortExecute}, To: flowast.PortRef{Node: "a", Port: flowast.PortExecute}})

	sink := Validate(w, Options{})
	found := false
	for _, d := range sink.Errors() {
		if d.Code == "CYCLE" {
			found = true
		}
	}
	require.True(t, found)
}
