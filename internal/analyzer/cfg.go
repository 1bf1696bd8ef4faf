// Package analyzer derives everything the emitter needs from a workflow
// AST in a single pass: the control-flow graph, a deterministic
// topological order, branching classification and branch regions,
// promotion, scope classification, and chain detection (spec §4.4).
package analyzer

import (
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// Edge is one directed control/data edge in the control-flow graph.
type Edge struct {
	From, To string
}

// CFG is the control-flow graph built from a workflow's instances and
// connections (spec §4.4, "Control-flow graph"). Nodes are Start, Exit,
// and every instance that is not a per-port scoped child; edges include
// every non-scoped connection between nodes in that set, plus synthetic
// edges from Start/to Exit for instances with no other predecessor or
// successor.
type CFG struct {
	Nodes  []string
	Edges  []Edge
	adjOut map[string][]string
	adjIn  map[string][]string
	in     map[string]bool // node-set membership
}

func (c *CFG) has(id string) bool { return c.in[id] }

// buildCFG constructs the CFG per spec §4.4. scopeKind classifies each
// instance's scoping (see scope.go); per-port scoped children are
// excluded from the node set entirely.
func buildCFG(w *flowast.Workflow, scopeKind map[string]ScopeKind) *CFG {
	c := &CFG{
		adjOut: map[string][]string{},
		adjIn:  map[string][]string{},
		in:     map[string]bool{},
	}
	c.Nodes = append(c.Nodes, flowast.Start)
	c.in[flowast.Start] = true
	for _, id := range w.InstanceOrder {
		if scopeKind[id] == PerPortScoped {
			continue
		}
		c.Nodes = append(c.Nodes, id)
		c.in[id] = true
	}
	c.Nodes = append(c.Nodes, flowast.Exit)
	c.in[flowast.Exit] = true

	seen := map[Edge]bool{}
	addEdge := func(from, to string) {
		e := Edge{from, to}
		if seen[e] {
			return
		}
		seen[e] = true
		c.Edges = append(c.Edges, e)
		c.adjOut[from] = append(c.adjOut[from], to)
		c.adjIn[to] = append(c.adjIn[to], from)
	}

	for _, conn := range w.Connections {
		if conn.From.Scope != "" || conn.To.Scope != "" {
			continue // scope-internal wiring, not part of the top-level CFG
		}
		if !c.has(conn.From.Node) || !c.has(conn.To.Node) {
			continue // references a per-port-scoped child or unknown node
		}
		addEdge(conn.From.Node, conn.To.Node)
	}

	// Synthetic edges: in-degree-0 instances hang off Start, out-degree-0
	// instances feed Exit (spec §4.4).
	for _, id := range c.Nodes {
		if id == flowast.Start || id == flowast.Exit {
			continue
		}
		if len(c.adjIn[id]) == 0 {
			addEdge(flowast.Start, id)
		}
		if len(c.adjOut[id]) == 0 {
			addEdge(id, flowast.Exit)
		}
	}
	return c
}
