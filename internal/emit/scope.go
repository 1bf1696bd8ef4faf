package emit

import (
	"fmt"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
)

// writeScopeOpen brackets a node-level scoped instance's call in a child
// execution context, shadowing `ec` for the duration of the block so every
// nested call (AddExecution, SetVariable, CheckAborted, ...) transparently
// targets the scope instead of the parent (spec §5, "Shared resources").
// The child context is also kept under its own name outside the block so
// writeScopeClose can merge it back into the parent.
func (g *generator) writeScopeOpen(indent, id string) {
	child := scopeEcVar(id)
	scopeName := g.ownedScopeName(id)
	fmt.Fprintf(&g.b, "%s%s := ec.CreateScope(%q, %s, %q)\n", indent, child, id, idxVar(id), scopeName)
	fmt.Fprintf(&g.b, "%s{\n", indent)
	fmt.Fprintf(&g.b, "%s\tec := %s\n", indent, child)
}

// writeScopeClose closes the block writeScopeOpen opened and merges the
// child context back into the (now un-shadowed) parent ec. indent is the
// deeper, inside-the-block indent writeScopeOpen's caller used for the
// wrapped call; the brace and merge line drop back one level.
func (g *generator) writeScopeClose(indent, id string) {
	outer := indent[:len(indent)-1]
	fmt.Fprintf(&g.b, "%s}\n", outer)
	fmt.Fprintf(&g.b, "%sec.MergeScope(%s)\n", outer, scopeEcVar(id))
}

func scopeEcVar(id string) string { return "scopeEc_" + goIdent(id) }

// writePerPortScopeClosures emits, for every scope this instance owns via
// scoped output ports (spec §4.4, PerPortScoped), a child context and a
// sequential run of that scope's children. Per-port scoped children are
// excluded from the CFG entirely, so they get no guard, branching, or
// chain analysis of their own here — they run in source order inside
// their own scope, which is this repo's accepted simplification of full
// recursive sub-graph lowering for nested scopes (see DESIGN.md).
func (g *generator) writePerPortScopeClosures(indent, id string) error {
	for _, sb := range g.w.Scopes {
		if sb.Owner != id || len(sb.Children) == 0 {
			continue
		}
		if g.an.ScopeKind[sb.Children[0]] != flowanalyzer.PerPortScoped {
			continue
		}
		child := scopeEcVar(id) + "_" + goIdent(sb.Scope)
		fmt.Fprintf(&g.b, "%s%s := ec.CreateScope(%q, %s, %q)\n", indent, child, id, idxVar(id), sb.Scope)
		for _, cid := range sb.Children {
			if err := g.writePerPortChild(indent, child, cid); err != nil {
				return err
			}
		}
		fmt.Fprintf(&g.b, "%sec.MergeScope(%s)\n", indent, child)
	}
	return nil
}

// writePerPortChild lowers one per-port scoped child, shadowing ec with
// its scope's child context for the duration of its own block.
func (g *generator) writePerPortChild(indent, scopeEcName, id string) error {
	nt, ok := g.w.InstanceType(id)
	if !ok {
		return fmt.Errorf("emit: scoped instance %q has no resolvable node type", id)
	}
	idx := idxVar(id)
	fmt.Fprintf(&g.b, "%s{\n", indent)
	inner := indent + "\t"
	fmt.Fprintf(&g.b, "%sec := %s\n", inner, scopeEcName)
	fmt.Fprintf(&g.b, "%s%s := ec.AddExecution(%q)\n", inner, idx, id)
	if err := g.lowerCall(inner, id, idx, nt); err != nil {
		return err
	}
	fmt.Fprintf(&g.b, "%s}\n", indent)
	g.declared[id] = true
	return nil
}

// ownedScopeName returns the scope name this instance's node type opens,
// whether declared by an explicit scope attribute (NodeLevelScoped) or by
// scoped output ports alone (PerPortScoped, e.g. MAP_ITERATOR's "start"/
// "item") — the classifier already guarantees the instance has exactly
// one such scope (spec §4.4).
func (g *generator) ownedScopeName(id string) string {
	nt, ok := g.w.InstanceType(id)
	if !ok {
		return ""
	}
	if len(nt.ScopeNames) > 0 {
		return nt.ScopeNames[0]
	}
	for _, p := range nt.Outputs {
		if p.Scope != "" {
			return p.Scope
		}
	}
	return ""
}
