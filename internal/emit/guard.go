package emit

import (
	"strings"

	flowast "github.com/flowgraph/flowc/internal/ast"
)

// guardExpr computes the Go boolean expression that must hold for instance
// id to run, derived directly from its incoming execute-port connections
// (spec §4.7). Using the connection graph directly, rather than nesting a
// conditional per branch region, keeps every node's guard a single flat
// `if` with no further nesting regardless of how many branching ancestors
// it has (spec §4.4's "chain flattening" and the analyzer's region/chain
// data exist to validate this structure, not to drive emission of it).
//
// An empty result means the node always runs.
func (g *generator) guardExpr(id string) string {
	conns := g.w.ConnectionsTo(id, flowast.PortExecute)
	var atoms []string
	for _, c := range conns {
		if c.From.Scope != "" || c.To.Scope != "" {
			continue
		}
		if atom, always := g.guardAtom(c.From); !always {
			atoms = append(atoms, atom)
		}
	}
	if len(atoms) == 0 {
		return ""
	}

	when := g.executeWhen(id)
	op := " && "
	if when == flowast.Disjunction {
		op = " || "
	}
	if when == flowast.Custom {
		// The host function itself decides; the core does not attempt to
		// reconstruct a custom combination rule (spec §4.7, "CUSTOM").
		return ""
	}
	return strings.Join(atoms, op)
}

// guardAtom returns the boolean atom contributed by one predecessor edge,
// and whether that edge imposes no constraint at all (from == true).
func (g *generator) guardAtom(from flowast.PortRef) (atom string, always bool) {
	if from.Node == flowast.Start {
		if from.Port == flowast.PortExecute {
			return "execute", false
		}
		return "", true
	}
	if g.an.Branching[from.Node] {
		switch from.Port {
		case flowast.PortOnSuccess:
			return successVar(from.Node), false
		case flowast.PortOnFailure:
			return "!" + successVar(from.Node), false
		}
	}
	if g.alwaysRuns(from.Node) {
		return "", true
	}
	return ranVar(from.Node), false
}

// alwaysRuns reports whether id's own guard is empty, i.e. it always
// executes once the function is entered. Populated incrementally by
// lowerInstance as the topological pass proceeds, so callers must only
// query it for instances already lowered (guaranteed by a.Order).
func (g *generator) alwaysRuns(id string) bool {
	always, ok := g.alwaysRunsCache[id]
	if !ok {
		// Not yet lowered (or Start/Exit): conservatively require a flag.
		return false
	}
	return always
}

func (g *generator) executeWhen(id string) flowast.ExecuteWhen {
	inst, ok := g.w.Instance(id)
	if !ok {
		return flowast.Conjunction
	}
	if inst.Config != nil && inst.Config.ExecuteWhen != nil {
		return *inst.Config.ExecuteWhen
	}
	if nt, ok := g.w.InstanceType(id); ok {
		return nt.ExecuteWhen
	}
	return flowast.Conjunction
}

// ranVar is the local boolean flag recording whether a non-branching,
// conditionally-guarded node actually ran — the atom downstream nodes
// reference when they depend on it directly through a plain execute-port
// wire rather than a success/failure route.
func ranVar(instanceID string) string { return "ran_" + goIdent(instanceID) }
