package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleWorkflow() *Workflow {
	w := New("ProcessOrder")
	w.AddNodeType(&NodeType{
		Name:         "FetchUser",
		FunctionName: "fetchUser",
		Inputs:       []PortDef{{Name: "userID", DataType: TString}},
		Outputs:      []PortDef{{Name: "onSuccess", IsControlFlow: true}, {Name: "user", DataType: TObject}},
		HasSuccessPort: true,
		HasFailurePort: true,
	})
	w.AddInstance(&NodeInstance{ID: "n1", Type: "FetchUser"})
	w.AddInstance(&NodeInstance{ID: "n2", Type: "FetchUser"})
	w.AddConnection(Connection{From: PortRef{Node: "n1", Port: "onSuccess"}, To: PortRef{Node: "n2", Port: "execute"}})
	return w
}

func TestAddInstancePreservesOrderAndReplaceInPlace(t *testing.T) {
	t.Parallel()

	w := sampleWorkflow()
	require.Equal(t, []string{"n1", "n2"}, w.InstanceOrder)

	w.AddInstance(&NodeInstance{ID: "n1", Type: "FetchUser", Config: &InstanceConfig{Label: "renamed"}})
	require.Equal(t, []string{"n1", "n2"}, w.InstanceOrder)
	inst, ok := w.Instance("n1")
	require.True(t, ok)
	require.Equal(t, "renamed", inst.Config.Label)
}

func TestRemoveInstanceDropsConnectionsAndScopeChildren(t *testing.T) {
	t.Parallel()

	w := sampleWorkflow()
	w.CreateScope("n1", "body", []string{"n2"})

	w.RemoveInstance("n2")

	_, ok := w.Instance("n2")
	require.False(t, ok)
	require.Equal(t, []string{"n1"}, w.InstanceOrder)
	require.Empty(t, w.Connections)
	require.Empty(t, w.ScopeChildren("n1", "body"))
}

func TestConnectionsFromAndToFilterByPort(t *testing.T) {
	t.Parallel()

	w := sampleWorkflow()
	w.AddConnection(Connection{From: PortRef{Node: "n1", Port: "user"}, To: PortRef{Node: "n2", Port: "userID"}})

	fromAny := w.ConnectionsFrom("n1", "")
	require.Len(t, fromAny, 2)

	toExecute := w.ConnectionsTo("n2", "execute")
	require.Len(t, toExecute, 1)
	require.Equal(t, "onSuccess", toExecute[0].From.Port)
}

func TestParentScopeResolvesNestedInstance(t *testing.T) {
	t.Parallel()

	w := sampleWorkflow()
	w.Instances["n2"].Config = &InstanceConfig{Parent: &ParentRef{ID: "n1", Scope: "body"}}

	owner, scope, ok := w.ParentScope("n2")
	require.True(t, ok)
	require.Equal(t, "n1", owner)
	require.Equal(t, "body", scope)

	_, _, ok = w.ParentScope("n1")
	require.False(t, ok)
}

func TestNodeTypeOpensScopeViaAttributeOrScopedOutput(t *testing.T) {
	t.Parallel()

	attrScoped := &NodeType{Name: "Each", ScopeNames: []string{"iteration"}}
	require.True(t, attrScoped.OpensScope("iteration"))

	portScoped := &NodeType{
		Name:    "Branch",
		Outputs: []PortDef{{Name: "onTrue", Scope: "trueBranch"}},
	}
	require.True(t, portScoped.OpensScope("trueBranch"))
	require.True(t, portScoped.HasScopedOutputs("trueBranch"))
	require.False(t, portScoped.OpensScope("other"))
}

func TestEquivalentIgnoresConnectionAndInstanceOrder(t *testing.T) {
	t.Parallel()

	a := sampleWorkflow()
	a.AddConnection(Connection{From: PortRef{Node: "n1", Port: "user"}, To: PortRef{Node: "n2", Port: "userID"}})

	b := New("ProcessOrder")
	b.AddNodeType(a.NodeTypes["FetchUser"])
	b.AddInstance(&NodeInstance{ID: "n2", Type: "FetchUser"})
	b.AddInstance(&NodeInstance{ID: "n1", Type: "FetchUser"})
	b.AddConnection(Connection{From: PortRef{Node: "n1", Port: "user"}, To: PortRef{Node: "n2", Port: "userID"}})
	b.AddConnection(Connection{From: PortRef{Node: "n1", Port: "onSuccess"}, To: PortRef{Node: "n2", Port: "execute"}})

	require.True(t, Equivalent(a, b))

	b.RemoveConnection(Connection{From: PortRef{Node: "n1", Port: "user"}, To: PortRef{Node: "n2", Port: "userID"}})
	require.False(t, Equivalent(a, b))
}

func TestEquivalentHandlesNilWorkflows(t *testing.T) {
	t.Parallel()

	require.True(t, Equivalent(nil, nil))
	require.False(t, Equivalent(sampleWorkflow(), nil))
}
