package emit

import (
	"fmt"

	flowast "github.com/flowgraph/flowc/internal/ast"
)

// writeExit assembles the workflow's result map from whatever reached each
// exit port, applying the structural coalescing rule: a STEP-typed exit
// port is the logical OR of every route that reached it; a data-typed exit
// port takes the first non-nil value among its writers in connection order
// (spec §4.7 step 7, §8 property 6: "STEP -> ||, data -> ??").
func (g *generator) writeExit() error {
	g.b.WriteString("\tresult := map[string]any{}\n")
	for _, p := range g.w.Outputs {
		conns := g.w.ConnectionsTo(flowast.Exit, p.Name)
		if p.DataType == flowast.TStep || p.IsControlFlow {
			g.writeStepExit(p, conns)
			continue
		}
		g.writeDataExit(p, conns)
	}
	g.b.WriteString("\tec.SendWorkflowCompletedEvent(execctx.CompletedEvent{ExecutionIndex: 0, Status: execctx.Succeeded, Result: result})\n")
	g.b.WriteString("\treturn result, nil\n")
	return nil
}

func (g *generator) writeStepExit(p flowast.PortDef, conns []flowast.Connection) {
	var atoms []string
	for _, c := range conns {
		if c.From.Scope != "" {
			continue
		}
		atoms = append(atoms, g.controlAtom(c.From))
	}
	expr := "false"
	if len(atoms) > 0 {
		expr = joinOr(atoms)
	}
	fmt.Fprintf(&g.b, "\tresult[%q] = %s\n", p.Name, expr)
}

func (g *generator) writeDataExit(p flowast.PortDef, conns []flowast.Connection) {
	var exprs []string
	for _, c := range conns {
		if c.From.Scope != "" {
			continue
		}
		exprs = append(exprs, g.dataAtom(c.From))
	}
	if len(exprs) == 0 {
		fmt.Fprintf(&g.b, "\tresult[%q] = nil\n", p.Name)
		return
	}
	if len(exprs) == 1 {
		fmt.Fprintf(&g.b, "\tresult[%q] = %s\n", p.Name, exprs[0])
		return
	}
	fmt.Fprintf(&g.b, "\tfor _, v := range []any{%s} {\n", joinComma(exprs))
	g.b.WriteString("\t\tif v != nil {\n")
	fmt.Fprintf(&g.b, "\t\t\tresult[%q] = v\n", p.Name)
	g.b.WriteString("\t\t\tbreak\n\t\t}\n\t}\n")
}

// controlAtom mirrors guardAtom but reads as "this route fired", for exit
// ports fed by a control-flow (STEP) connection.
func (g *generator) controlAtom(from flowast.PortRef) string {
	if from.Node == flowast.Start {
		if from.Port == flowast.PortExecute {
			return "execute"
		}
		return "true"
	}
	if g.an.Branching[from.Node] {
		switch from.Port {
		case flowast.PortOnSuccess:
			return successVar(from.Node)
		case flowast.PortOnFailure:
			return "!" + successVar(from.Node)
		}
	}
	if g.alwaysRuns(from.Node) {
		return "true"
	}
	return ranVar(from.Node)
}

func (g *generator) dataAtom(from flowast.PortRef) string {
	if from.Node == flowast.Start {
		if from.Port == flowast.PortExecute {
			return "execute"
		}
		return "params[" + quote(from.Port) + "]"
	}
	if _, pull := isPull(g.w, from.Node); pull {
		return pullGetExpr(from.Node, from.Port)
	}
	return outVar(from.Node, from.Port)
}

func joinOr(atoms []string) string {
	out := atoms[0]
	for _, a := range atoms[1:] {
		out += " || " + a
	}
	return out
}

func joinComma(exprs []string) string {
	out := exprs[0]
	for _, e := range exprs[1:] {
		out += ", " + e
	}
	return out
}
