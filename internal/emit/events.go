package emit

import (
	"fmt"

	flowast "github.com/flowgraph/flowc/internal/ast"
)

// writeRunningEvent announces a node's start (spec §4.7, "Observability
// events"). Suppressed in production mode, which trims per-node RUNNING
// chatter down to the SUCCEEDED/FAILED transitions that actually matter
// for an operator dashboard (spec §5).
func (g *generator) writeRunningEvent(indent, id string, nt *flowast.NodeType, idx string) {
	if g.opts.Production {
		return
	}
	fmt.Fprintf(&g.b, "%sec.SendStatusChangedEvent(execctx.StatusEvent{NodeTypeName: %q, ID: %q, ExecutionIndex: %s, Status: execctx.Running})\n",
		indent, nt.Name, id, idx)
}

// writeOutcome distributes a regular function call's result, sends the
// FAILED/SUCCEEDED event, and propagates cancellation (spec §4.7 steps
// 5-6, §6.3). An ordinary node's result is a host struct, accessed as
// res.Field; an expression node (spec.md:39, "no execute parameter; raw
// return mapped to outputs") has no such struct — its host function
// returns the output value directly, so res itself is the value for its
// one non-control output port.
func (g *generator) writeOutcome(indent, id string, nt *flowast.NodeType, idx, res string) {
	if nt.Expression {
		g.writeOutcomeWith(indent, id, nt, idx, func(flowast.PortDef) string {
			return res
		})
		return
	}
	g.writeOutcomeWith(indent, id, nt, idx, func(p flowast.PortDef) string {
		return fmt.Sprintf("%s.%s", res, exportedIdent(p.Name))
	})
}

// writeWorkflowOutcome mirrors writeOutcome for a nested workflow call,
// whose result is a map[string]any keyed by the callee's exit port names
// rather than a struct.
func (g *generator) writeWorkflowOutcome(indent, id string, nt *flowast.NodeType, idx, res string) {
	g.writeOutcomeWith(indent, id, nt, idx, func(p flowast.PortDef) string {
		return fmt.Sprintf("%s[%q]", res, p.Name)
	})
}

// writeOutcomeWith holds the success/failure branching shared by a regular
// call's and a nested workflow call's outcome, parameterised over how one
// data output port's value is read off the raw result.
func (g *generator) writeOutcomeWith(indent, id string, nt *flowast.NodeType, idx string, fieldExpr func(flowast.PortDef) string) {
	branching := nt.HasSuccessPort && nt.HasFailurePort
	ev := errVar(id)

	fmt.Fprintf(&g.b, "%sif %s != nil {\n", indent, ev)
	fmt.Fprintf(&g.b, "%s\tif execctx.IsCancellationError(%s) {\n", indent, ev)
	g.writeStatusEvent(indent+"\t\t", nt, id, idx, "Cancelled")
	fmt.Fprintf(&g.b, "%s\t\t%s\n%s\t}\n", indent, g.retErr(ev), indent)
	fmt.Fprintf(&g.b, "%s\tec.SendLogErrorEvent(%q, %q, %s, %s)\n", indent, nt.FunctionName, id, idx, ev)
	g.writeStatusEvent(indent+"\t", nt, id, idx, "Failed")
	if branching {
		// successVar is the single flag controlAtom reads for both routes
		// (spec §4.7 "branching node"): onSuccess reads it directly, onFailure
		// reads its negation, so setting it false here already satisfies
		// spec.md:151's "onSuccess=false/onFailure=true" on catch.
		fmt.Fprintf(&g.b, "%s\t%s = false\n", indent, successVar(id))
	}
	fmt.Fprintf(&g.b, "%s} else {\n", indent)
	g.writeStatusEvent(indent+"\t", nt, id, idx, "Succeeded")
	for _, p := range nt.Outputs {
		if p.IsControlFlow {
			continue
		}
		fmt.Fprintf(&g.b, "%s\t%s = %s\n", indent, outVar(id, p.Name), fieldExpr(p))
	}
	if branching {
		fmt.Fprintf(&g.b, "%s\t%s = true\n", indent, successVar(id))
	}
	fmt.Fprintf(&g.b, "%s}\n", indent)

	for _, p := range nt.Outputs {
		if p.IsControlFlow {
			continue
		}
		g.setVariable(indent, id, p.Name, idx, outVar(id, p.Name))
	}
	g.writeCancelCheck(indent, id)
}

func (g *generator) writeStatusEvent(indent string, nt *flowast.NodeType, id, idx, status string) {
	fmt.Fprintf(&g.b, "%sec.SendStatusChangedEvent(execctx.StatusEvent{NodeTypeName: %q, ID: %q, ExecutionIndex: %s, Status: execctx.%s})\n",
		indent, nt.Name, id, idx, status)
}

// setVariable records a port value through the execution context so a
// cross-scope or pull-triggered GetVariable can observe it (spec §6.3);
// ordinary same-function wiring still reads the Go local directly via
// outVar (see inputExpr), so this call exists for observability and
// pull/scope interop, not for the primary data path.
func (g *generator) setVariable(indent, id, port, idx, valueExpr string) {
	fmt.Fprintf(&g.b, "%sif err := ec.SetVariable(ctx, execctx.VariableRef{ID: %q, PortName: %q, ExecutionIndex: %s}, %s); err != nil {\n%s\t%s\n%s}\n",
		indent, id, port, idx, valueExpr, indent, g.retErr("err"), indent)
}

// writeCancelCheck emits the mid-flight abort check every node performs
// after completing (spec §5 "Cancellation").
func (g *generator) writeCancelCheck(indent, id string) error {
	fmt.Fprintf(&g.b, "%sif err := ec.CheckAborted(%q); err != nil {\n%s\t%s\n%s}\n", indent, id, indent, g.retErr("err"), indent)
	return nil
}

// writeEntryCancelCheck emits the abort check spec §5 requires "at the
// entry of every node emission (and every pull executor)" — right after
// AddExecution and before the node's RUNNING event, so an abort signalled before this
// node ever started still yields exactly one terminal status (spec §8
// property 5) instead of none. This is distinct from writeCancelCheck's
// post-call check, which catches cancellation surfacing from the node's
// own invocation instead of one already pending on entry.
func (g *generator) writeEntryCancelCheck(indent, id string, nt *flowast.NodeType, idx string) {
	fmt.Fprintf(&g.b, "%sif err := ec.CheckAborted(%q); err != nil {\n", indent, id)
	g.writeStatusEvent(indent+"\t", nt, id, idx, "Cancelled")
	fmt.Fprintf(&g.b, "%s\t%s\n", indent, g.retErr("err"))
	fmt.Fprintf(&g.b, "%s}\n", indent)
}
