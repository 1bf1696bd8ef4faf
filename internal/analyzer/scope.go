package analyzer

import (
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// ScopeKind classifies how a scoped child instance participates in
// lowering (spec §4.4, "Scope classification").
type ScopeKind int

const (
	// NotScoped instances have no parent reference, or the parent
	// reference does not resolve to a declared scope.
	NotScoped ScopeKind = iota
	// PerPortScoped children are lowered inside the parent's scope-function
	// closure and excluded from the CFG entirely: the parent type declares
	// the scope via scoped output ports.
	PerPortScoped
	// NodeLevelScoped children remain in the CFG but are emitted inside a
	// scope block during lowering: the parent type declares the scope via
	// a bare scope attribute/name with no scoped output ports.
	NodeLevelScoped
)

// classifyScopes computes ScopeKind for every instance in the workflow.
// The Open Question on interchangeable `scopes: [A, B]` declarations
// (spec §9) is resolved by treating each named scope independently and
// requiring an explicit `parent.scope` on every child (see DESIGN.md);
// classifyScopes relies on that explicit reference rather than guessing.
func classifyScopes(w *flowast.Workflow) map[string]ScopeKind {
	out := make(map[string]ScopeKind, len(w.Instances))
	for _, id := range w.InstanceOrder {
		out[id] = classifyOne(w, id)
	}
	return out
}

func classifyOne(w *flowast.Workflow, id string) ScopeKind {
	inst, ok := w.Instance(id)
	if !ok || inst.Config == nil || inst.Config.Parent == nil {
		return NotScoped
	}
	parentType, ok := w.InstanceType(inst.Config.Parent.ID)
	if !ok {
		return NotScoped
	}
	scope := inst.Config.Parent.Scope
	if parentType.HasScopedOutputs(scope) {
		return PerPortScoped
	}
	if parentType.OpensScope(scope) {
		return NodeLevelScoped
	}
	return NotScoped
}
