package emit

import (
	"fmt"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// Node host functions follow a fixed calling convention the assembler's
// signature extraction (internal/assembler/nodetype.go) is written
// against: a single named input struct and a single named output struct,
// so the emitter never needs the host function's true parameter order
// (spec's Non-goals exclude full host type inference; this convention is
// this repo's resolution of that gap, recorded in DESIGN.md) — only the
// port names, which become the struct's field names.
//
//	func <FuncName>(ctx context.Context, ec execctx.Context, in <FuncName>Input) (<FuncName>Output, error)

// writeInstanceDecls pre-declares, at the given indent, the locals an
// instance's outcome needs to survive past whatever conditional block its
// own lowering opens: the execution-index, the branching success flag,
// and one local per non-control output port. Declaring these ahead of the
// guard (rather than with `:=` inside it) is what lets a downstream
// consumer reference the same local from outside that block, and lets the
// CANCELLED branch below assign a zero-valued result without redeclaring
// anything (spec §4.7; §8 property 5 needs exactly one terminal status
// regardless of which branch of the `if` runs).
func (g *generator) writeInstanceDecls(indent, id string, nt *flowast.NodeType) {
	fmt.Fprintf(&g.b, "%svar %s int\n", indent, idxVar(id))
	if nt.HasSuccessPort && nt.HasFailurePort {
		fmt.Fprintf(&g.b, "%svar %s bool\n", indent, successVar(id))
	}
	for _, p := range nt.Outputs {
		if p.IsControlFlow {
			continue
		}
		typ := "any"
		if nt.Variant == flowast.VariantMapIterator {
			// The sole data output of a map iterator accumulates one
			// entry per source item (spec §4.7, "MAP_ITERATOR").
			typ = "[]any"
		}
		fmt.Fprintf(&g.b, "%svar %s %s\n", indent, outVar(id, p.Name), typ)
	}
}

// lowerInstance emits one instance's call, guarded by its computed
// condition, and records whether it always runs for guardExpr's use by
// later instances (spec §4.7). When the guard does not hold, the instance
// still gets an execution index and a single CANCELLED status event
// (spec §8 property 5, scenarios 2-3: "observers see every node's
// terminal status" even on the branch that never ran its body).
func (g *generator) lowerInstance(id string) error {
	nt, ok := g.w.InstanceType(id)
	if !ok {
		return fmt.Errorf("emit: instance %q has no resolvable node type", id)
	}

	if trigger, pull := isPull(g.w, id); pull {
		_ = trigger // the trigger port only matters to the authoring UI; lowering always registers the same memoized closure
		g.alwaysRunsCache[id] = false
		return g.lowerPullInstance(id, nt)
	}

	guard := g.guardExpr(id)
	g.alwaysRunsCache[id] = guard == ""

	g.writeInstanceDecls("\t", id, nt)

	idx := idxVar(id)
	indent := "\t"
	if guard != "" {
		fmt.Fprintf(&g.b, "\t%s := %s\n", ranVar(id), guard)
		fmt.Fprintf(&g.b, "\tif %s {\n", ranVar(id))
		indent = "\t\t"
	}

	fmt.Fprintf(&g.b, "%s%s = ec.AddExecution(%q)\n", indent, idx, id)
	g.writeEntryCancelCheck(indent, id, nt, idx)

	kind := g.an.ScopeKind[id]
	wrapScope := kind == flowanalyzer.NodeLevelScoped
	if wrapScope {
		g.writeScopeOpen(indent, id)
		indent += "\t"
	}

	if err := g.lowerCall(indent, id, idx, nt); err != nil {
		return err
	}

	if wrapScope {
		g.writeScopeClose(indent, id)
	}

	if nt.Variant != flowast.VariantMapIterator {
		// A map iterator's per-port scoped children run once per source
		// item from inside lowerMapIterator itself, not once overall here.
		if err := g.writePerPortScopeClosures(indent, id); err != nil {
			return err
		}
	}

	if guard != "" {
		g.b.WriteString("\t} else {\n")
		fmt.Fprintf(&g.b, "\t\t%s = ec.AddExecution(%q)\n", idx, id)
		g.writeStatusEvent("\t\t", nt, id, idx, "Cancelled")
		g.b.WriteString("\t}\n")
	}

	g.declared[id] = true
	return nil
}

func (g *generator) lowerCall(indent, id, idx string, nt *flowast.NodeType) error {
	switch nt.Variant {
	case flowast.VariantWorkflow, flowast.VariantImportedWorkflow:
		return g.lowerWorkflowCall(indent, id, idx, nt)
	case flowast.VariantMapIterator:
		return g.lowerMapIterator(indent, id, idx, nt)
	default:
		return g.lowerFunctionCall(indent, id, idx, nt)
	}
}

// lowerFunctionCall emits a regular host-function call: build the input
// struct literal from wired or default values, call, distribute outputs,
// send observability events, and check cancellation (spec §4.7 step 5,
// §6.3).
func (g *generator) lowerFunctionCall(indent, id, idx string, nt *flowast.NodeType) error {
	g.writeRunningEvent(indent, id, nt, idx)

	fmt.Fprintf(&g.b, "%sin_%s := %sInput{\n", indent, goIdent(id), nt.FunctionName)
	for _, p := range nt.Inputs {
		expr := g.inputExpr(id, p)
		fmt.Fprintf(&g.b, "%s\t%s: %s,\n", indent, exportedIdent(p.Name), expr)
	}
	fmt.Fprintf(&g.b, "%s}\n", indent)

	res := resultVar(id)
	fmt.Fprintf(&g.b, "%s%s, %s := %s(ctx, ec, in_%s)\n", indent, res, errVar(id), nt.FunctionName, goIdent(id))

	g.writeOutcome(indent, id, nt, idx, res)
	return nil
}

// lowerWorkflowCall emits a call into another generated workflow function
// (or an imported one), threading the recursion-depth counter (spec §4.7
// step 1, §5 "Nested workflows / imports").
func (g *generator) lowerWorkflowCall(indent, id, idx string, nt *flowast.NodeType) error {
	g.writeRunningEvent(indent, id, nt, idx)

	params := "params_" + goIdent(id)
	fmt.Fprintf(&g.b, "%s%s := map[string]any{\"__rd__\": rd + 1}\n", indent, params)
	for _, p := range nt.Inputs {
		if p.Name == flowast.PortExecute {
			continue
		}
		expr := g.inputExpr(id, p)
		fmt.Fprintf(&g.b, "%s%s[%q] = %s\n", indent, params, p.Name, expr)
	}
	// Reaching this call already means the guard passed, so the callee's
	// own execute flag is simply true.
	execExpr := "true"

	callee := nt.FunctionName
	if nt.Variant == flowast.VariantImportedWorkflow && nt.ImportSource != "" {
		callee = ImportAlias(nt.ImportSource) + "." + nt.FunctionName
	}

	res := resultVar(id)
	fmt.Fprintf(&g.b, "%s%s, %s := %s(ctx, ec, %s, %s)\n", indent, res, errVar(id), callee, execExpr, params)

	g.writeWorkflowOutcome(indent, id, nt, idx, res)
	return nil
}

// lowerMapIterator emits a loop that, for each element of the items input,
// runs the node's scoped children in a fresh child context and collects
// whichever child output feeds the owner's scoped input port back
// (spec §4.7, "MAP_ITERATOR": "invoke the child scope function (true,
// item) and accumulate .processed into a results array"). A node
// authored via the `@map` shorthand and one authored with an explicit
// `@scope`/`@connect` pair lower identically here — the shorthand's
// macro is sugar for exactly this scope-binding shape (spec §4.5).
func (g *generator) lowerMapIterator(indent, id, idx string, nt *flowast.NodeType) error {
	g.writeRunningEvent(indent, id, nt, idx)

	scopeName := g.ownedScopeName(id)
	children := g.w.ScopeChildren(id, scopeName)
	resultsPort := firstOutputName(nt)
	resultsVar := outVar(id, resultsPort)
	branching := nt.HasSuccessPort && nt.HasFailurePort

	itemsIn, ok := firstDataInput(nt)
	itemsExpr := "nil"
	if ok {
		itemsExpr = g.inputExpr(id, itemsIn)
	}
	itemsVar := "items_" + goIdent(id)
	fmt.Fprintf(&g.b, "%s%s, _ := %s.([]any)\n", indent, itemsVar, itemsExpr)
	fmt.Fprintf(&g.b, "%sfor _, item := range %s {\n", indent, itemsVar)
	inner := indent + "\t"
	scopeEc := scopeEcVar(id)
	fmt.Fprintf(&g.b, "%s%s := ec.CreateScope(%q, %s, %q)\n", inner, scopeEc, id, idx, scopeName)

	for _, cid := range children {
		cnt, ok := g.w.InstanceType(cid)
		if !ok {
			continue
		}
		g.writeInstanceDecls(inner, cid, cnt)
		fmt.Fprintf(&g.b, "%s{\n", inner)
		ci := inner + "\t"
		fmt.Fprintf(&g.b, "%sec := %s\n", ci, scopeEc)
		cidx := idxVar(cid)
		fmt.Fprintf(&g.b, "%s%s = ec.AddExecution(%q)\n", ci, cidx, cid)
		g.scopeItemVar[cid] = "item"
		if err := g.lowerCall(ci, cid, cidx, cnt); err != nil {
			return err
		}
		delete(g.scopeItemVar, cid)
		fmt.Fprintf(&g.b, "%s}\n", inner)
		g.declared[cid] = true

		if fromPort, ok := g.scopedFeedback(id, scopeName, cid); ok {
			fmt.Fprintf(&g.b, "%s%s = append(%s, %s)\n", inner, resultsVar, resultsVar, outVar(cid, fromPort))
		}
	}
	fmt.Fprintf(&g.b, "%sec.MergeScope(%s)\n", inner, scopeEc)
	g.b.WriteString(indent + "}\n")

	g.writeStatusEvent(indent, nt, id, idx, "Succeeded")
	if branching {
		fmt.Fprintf(&g.b, "%s%s = true\n", indent, successVar(id))
	}
	g.setVariable(indent, id, resultsPort, idx, resultsVar)
	return g.writeCancelCheck(indent, id)
}

// firstDataInput returns the node type's first non-control-flow input
// port — the items collection a map iterator ranges over.
func firstDataInput(nt *flowast.NodeType) (flowast.PortDef, bool) {
	for _, p := range nt.Inputs {
		if !p.IsControlFlow {
			return p, true
		}
	}
	return flowast.PortDef{}, false
}

// scopedFeedback finds the scoped child whose output is wired back to the
// owner's scoped input port (e.g. `double.processed -> each.processed:
// iteration`), returning the port name on the child side.
func (g *generator) scopedFeedback(owner, scope, child string) (port string, ok bool) {
	for _, c := range g.w.Connections {
		if c.From.Node == child && c.To.Node == owner && c.To.Scope == scope {
			return c.From.Port, true
		}
	}
	return "", false
}

func firstOutputName(nt *flowast.NodeType) string {
	for _, p := range nt.Outputs {
		if !p.IsControlFlow {
			return p.Name
		}
	}
	return "result"
}

// inputExpr resolves the Go expression feeding one input port: a direct
// reference to an already-lowered predecessor's output local when wired,
// the port's declared default literal otherwise, or a zero-ish fallback
// (spec's Non-goals exclude full host type inference, so an untyped
// fallback is this repo's accepted boundary — see DESIGN.md).
func (g *generator) inputExpr(id string, p flowast.PortDef) string {
	if p.Name == flowast.PortExecute {
		return "true"
	}
	conns := g.w.ConnectionsTo(id, p.Name)
	for _, c := range conns {
		if c.From.Scope != "" || c.To.Scope != "" {
			// A scope-sourced input has no lexical predecessor local of
			// its own; lowerMapIterator binds it to the loop's element
			// variable instead (spec §4.4, "Per-port scope").
			if v, ok := g.scopeItemVar[id]; ok {
				return v
			}
			continue
		}
		if c.From.Node == flowast.Start {
			return "params[" + quote(c.From.Port) + "]"
		}
		if _, pull := isPull(g.w, c.From.Node); pull {
			// A pull predecessor has no function-scope local at all — it
			// is reached exclusively through the context, which triggers
			// its memoized executor on first access (spec §4.7, "Pull
			// node").
			return pullGetExpr(c.From.Node, c.From.Port)
		}
		if g.declared[c.From.Node] {
			return outVar(c.From.Node, c.From.Port)
		}
	}
	if p.HasDefault && p.Default != "" {
		return p.Default
	}
	return "nil"
}
