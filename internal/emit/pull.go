package emit

import (
	"fmt"

	flowast "github.com/flowgraph/flowc/internal/ast"
)

// isPull reports whether id is lazily (pull) executed and, if so, its
// trigger port (spec §3, §4.7 "Pull node"). An instance's own
// pullExecution always overrides its node type's defaultConfig — spec §3
// calls defaultConfig "instance-overridable" for exactly this reason.
func isPull(w *flowast.Workflow, id string) (trigger string, ok bool) {
	if inst, exists := w.Instance(id); exists && inst.Config != nil && inst.Config.PullExecution != nil {
		return inst.Config.PullExecution.TriggerPort, true
	}
	if nt, exists := w.InstanceType(id); exists && nt.DefaultConfig != nil {
		return nt.DefaultConfig.TriggerPort, true
	}
	return "", false
}

// lowerPullInstance registers a memoized executor closure with the
// context instead of inlining the node's call at its topological
// position: the node only runs the first time some consumer's
// GetVariable observes one of its ports (spec §4.7, "Pull node"). No
// guard is emitted here — lazy consumption is itself the guard, and a
// pull node that nothing ever observes never runs and emits no status
// events at all (spec §8, boundary: "a pull node that is never observed
// ... is never executed").
//
// Everything the closure declares is local to the closure, so unlike
// lowerInstance's top-level path nothing needs pre-declaring at function
// scope: a pull node's outputs are reached exclusively through
// execctx.MustGetVariable by callers outside the closure (see dataAtom,
// inputExpr).
func (g *generator) lowerPullInstance(id string, nt *flowast.NodeType) error {
	fmt.Fprintf(&g.b, "\tec.RegisterPullExecutor(%q, func(ctx context.Context) error {\n", id)

	prevPull := g.inPullClosure
	g.inPullClosure = true
	defer func() { g.inPullClosure = prevPull }()

	inner := "\t\t"
	idx := idxVar(id)
	fmt.Fprintf(&g.b, "%s%s := ec.AddExecution(%q)\n", inner, idx, id)
	g.writeEntryCancelCheck(inner, id, nt, idx)
	if nt.HasSuccessPort && nt.HasFailurePort {
		fmt.Fprintf(&g.b, "%svar %s bool\n", inner, successVar(id))
	}
	for _, p := range nt.Outputs {
		if p.IsControlFlow {
			continue
		}
		fmt.Fprintf(&g.b, "%svar %s any\n", inner, outVar(id, p.Name))
	}

	if err := g.lowerCall(inner, id, idx, nt); err != nil {
		return err
	}

	g.b.WriteString(inner + "return nil\n")
	g.b.WriteString("\t})\n")

	g.declared[id] = true
	return nil
}

// pullGetExpr builds the execctx.MustGetVariable expression, yielding the
// port's value, that a consumer outside the closure reads a pull node's
// port through (spec §6.3, §4.7).
func pullGetExpr(id, port string) string {
	return fmt.Sprintf(
		"execctx.MustGetVariable(ctx, ec, execctx.VariableRef{ID: %q, PortName: %q})",
		id, port,
	)
}
