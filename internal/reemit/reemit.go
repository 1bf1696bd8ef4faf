// Package reemit regenerates canonical annotation doc-comment lines from a
// workflow (or node-type) AST — the parser's round-trip sibling (spec
// §4.8). Where internal/assembler turns annotation text into an AST,
// reemit turns the AST back into annotation text that parses, via
// internal/assembler, to an equivalent AST (spec §4.3's round-trip
// invariant, §8 property 3: "emit(parse(emitAnnotations(W))) = emit(W)").
//
// reemit never touches non-generated source: callers (internal/compile's
// GenerateInPlace) are responsible for splicing the lines this package
// produces into the doc comment immediately above the relevant function,
// leaving any other comment prose the author wrote untouched.
package reemit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/sugar"
)

// Workflow renders the canonical annotation block for a workflow AST, one
// annotation per line, in the fixed order the language reference
// documents them (spec §6.1): ports, nodes, sugar macros, remaining plain
// connections, positions, then workflow-option tags. Lines carry no `// `
// or `* ` comment prefix; callers add that when splicing into source.
func Workflow(w *flowast.Workflow) []string {
	var lines []string
	lines = append(lines, portLines("@input", w.Inputs)...)
	lines = append(lines, portLines("@output", w.Outputs)...)
	lines = append(lines, nodeLines(w)...)

	covered := coveredEdges(w)
	lines = append(lines, pathMacroLines(w)...)
	lines = append(lines, mapMacroLines(w)...)
	lines = append(lines, plainConnectLines(w, covered)...)
	lines = append(lines, positionLines(w)...)
	lines = append(lines, triggerLines(w)...)
	return lines
}

// NodeType renders the canonical annotation block for a node-type AST:
// its input/output/step ports (control-flow ports rendered as `@step`,
// everything else split across `@input`/`@output`) and any scopes it
// opens.
func NodeType(nt *flowast.NodeType) []string {
	var lines []string
	for _, p := range nt.Inputs {
		lines = append(lines, portLine(stepOr("@input", p), p))
	}
	for _, p := range nt.Outputs {
		lines = append(lines, portLine(stepOr("@output", p), p))
	}
	for _, s := range nt.ScopeNames {
		lines = append(lines, "@scope "+s)
	}
	return lines
}

func stepOr(fallback string, p flowast.PortDef) string {
	if p.IsControlFlow && p.Name != flowast.PortExecute && p.Name != flowast.PortOnSuccess && p.Name != flowast.PortOnFailure {
		return "@step"
	}
	return fallback
}

// portLines renders one `@input`/`@output` line per declared Start/Exit
// port, in the order the workflow AST already carries them (spec §4.3
// step 4's ordering has already been applied by the time an AST reaches
// here).
func portLines(tag string, ports []flowast.PortDef) []string {
	var lines []string
	for _, p := range ports {
		lines = append(lines, portLine(tag, p))
	}
	return lines
}

func portLine(tag string, p flowast.PortDef) string {
	var attrs []string
	if p.Order != 0 {
		attrs = append(attrs, "order:"+strconv.Itoa(p.Order))
	}
	if p.Scope != "" {
		attrs = append(attrs, "scope:"+p.Scope)
	}
	if p.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label:%s", quote(p.Label)))
	}
	var flags []string
	if p.Optional {
		flags = append(flags, "optional")
	}
	if p.Hidden {
		flags = append(flags, "hidden")
	}
	if p.Failure {
		flags = append(flags, "failure")
	}
	if p.Expression {
		flags = append(flags, "expression")
	}

	line := tag + " " + p.Name
	if len(attrs) > 0 {
		line += " [" + strings.Join(attrs, ",") + "]"
	}
	for _, f := range flags {
		line += " [" + f + "]"
	}
	if p.Description != "" {
		line += " - " + p.Description
	}
	return line
}

// nodeLines renders one `@node` line per instance, in source order,
// qualified by its parent scope reference when nested (spec §6.1).
func nodeLines(w *flowast.Workflow) []string {
	var lines []string
	for _, id := range w.InstanceOrder {
		inst := w.Instances[id]
		line := "@node " + inst.ID + " " + inst.Type
		if inst.Config != nil && inst.Config.Parent != nil {
			line += " " + inst.Config.Parent.ID + "." + inst.Config.Parent.Scope
		}
		line += instanceAttrs(inst)
		lines = append(lines, line)
	}
	return lines
}

func instanceAttrs(inst *flowast.NodeInstance) string {
	if inst.Config == nil {
		return ""
	}
	var attrs []string
	if inst.Config.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label:%s", quote(inst.Config.Label)))
	}
	if inst.Config.Color != "" {
		attrs = append(attrs, "color:"+inst.Config.Color)
	}
	if inst.Config.Icon != "" {
		attrs = append(attrs, "icon:"+inst.Config.Icon)
	}
	var out string
	if len(attrs) > 0 {
		out += " [" + strings.Join(attrs, ",") + "]"
	}
	if inst.Config.PullExecution != nil {
		out += " [pullExecution:" + inst.Config.PullExecution.TriggerPort + "]"
	}
	if inst.Config.Minimized {
		out += " [minimized]"
	}
	for _, t := range inst.Config.Tags {
		out += " [tags:" + t.Label + "]"
	}
	if inst.Config.Position != nil {
		// rendered separately as @position, not here
		_ = inst.Config.Position
	}
	return out
}

// positionLines renders one `@position` line per instance carrying a
// saved layout coordinate (spec §3 Position, preserved though never
// interpreted — spec §1 Non-goals).
func positionLines(w *flowast.Workflow) []string {
	var lines []string
	for _, id := range w.InstanceOrder {
		inst := w.Instances[id]
		if inst.Config == nil || inst.Config.Position == nil {
			continue
		}
		p := inst.Config.Position
		lines = append(lines, fmt.Sprintf("@position %s %d %d", id, p.X, p.Y))
	}
	return lines
}

// pathMacroLines renders every retained `@path` macro that is still valid
// against the current connection set (spec §4.5 "Filtering": stale
// macros are dropped on every pass, never re-emitted).
func pathMacroLines(w *flowast.Workflow) []string {
	var lines []string
	for _, m := range w.PathMacros {
		if !sugar.Valid(w, m) {
			continue
		}
		var parts []string
		for _, s := range m.Steps {
			part := s.Node
			if s.Route != "" {
				part += " " + s.Route
			}
			parts = append(parts, part)
		}
		lines = append(lines, "@path "+strings.Join(parts, " -> ")+" -> Exit")
	}
	return lines
}

// mapMacroLines renders every retained `@map` macro still valid against
// the current scope/connection state (spec §4.5).
func mapMacroLines(w *flowast.Workflow) []string {
	var lines []string
	for _, m := range w.MapMacros {
		if !sugar.ValidMap(w, m) {
			continue
		}
		childType := ""
		if inst, ok := w.Instance(m.ChildID); ok {
			childType = inst.Type
		}
		line := fmt.Sprintf("@map %s %s", m.InstanceID, childType)
		if m.InputPort != "" && m.OutputPort != "" {
			line += fmt.Sprintf(" (%s -> %s)", m.InputPort, m.OutputPort)
		}
		line += fmt.Sprintf(" over %s.%s", m.SourceNode, m.SourcePort)
		lines = append(lines, line)
	}
	return lines
}

// coveredEdges returns every connection implied by a still-valid macro,
// keyed the same way internal/sugar keys them, so plainConnectLines can
// skip connections already represented compactly (spec §3, "a sugar
// macro and its expanded connections are equivalent").
func coveredEdges(w *flowast.Workflow) map[string]bool {
	covered := map[string]bool{}
	for _, m := range w.PathMacros {
		if !sugar.Valid(w, m) {
			continue
		}
		for _, c := range expandPathEdges(m) {
			covered[edgeKey(c)] = true
		}
	}
	for _, m := range w.MapMacros {
		if !sugar.ValidMap(w, m) {
			continue
		}
		covered[edgeKey(flowast.Connection{
			From: flowast.PortRef{Node: m.SourceNode, Port: m.SourcePort},
			To:   flowast.PortRef{Node: m.InstanceID, Port: "items"},
		})] = true
	}
	return covered
}

func edgeKey(c flowast.Connection) string {
	return c.From.Node + "." + c.From.Port + ":" + c.From.Scope + "->" + c.To.Node + "." + c.To.Port + ":" + c.To.Scope
}

// expandPathEdges mirrors internal/sugar's private path expansion (it is
// unexported there since only detection needs it); reemit needs the same
// expansion to compute which plain connections a retained @path macro
// already covers.
func expandPathEdges(m flowast.PathMacro) []flowast.Connection {
	if len(m.Steps) == 0 {
		return nil
	}
	var out []flowast.Connection
	out = append(out, flowast.Connection{
		From: flowast.PortRef{Node: flowast.Start, Port: flowast.PortExecute},
		To:   flowast.PortRef{Node: m.Steps[0].Node, Port: flowast.PortExecute},
	})
	portFor := func(route string) string {
		if route == "fail" {
			return flowast.PortOnFailure
		}
		return flowast.PortOnSuccess
	}
	for i := 0; i < len(m.Steps)-1; i++ {
		cur, nxt := m.Steps[i], m.Steps[i+1]
		out = append(out, flowast.Connection{
			From: flowast.PortRef{Node: cur.Node, Port: portFor(cur.Route)},
			To:   flowast.PortRef{Node: nxt.Node, Port: flowast.PortExecute},
		})
	}
	last := m.Steps[len(m.Steps)-1]
	exitPort := flowast.PortOnSuccess
	if last.Route == "fail" {
		exitPort = flowast.PortOnFailure
	}
	out = append(out, flowast.Connection{
		From: flowast.PortRef{Node: last.Node, Port: portFor(last.Route)},
		To:   flowast.PortRef{Node: flowast.Exit, Port: exitPort},
	})
	return out
}

// plainConnectLines renders one `@connect` line per connection not
// already implied by a retained sugar macro, in a canonical (sorted)
// order so re-emission is deterministic regardless of original authoring
// order (spec §4.3's round-trip invariant is "permutation-insensitive on
// connection sets", so canonicalizing here is safe).
func plainConnectLines(w *flowast.Workflow, covered map[string]bool) []string {
	conns := append([]flowast.Connection(nil), w.Connections...)
	sort.Slice(conns, func(i, j int) bool { return connectionLess(conns[i], conns[j]) })

	var lines []string
	for _, c := range conns {
		if covered[edgeKey(c)] {
			continue
		}
		lines = append(lines, "@connect "+endpoint(c.From)+" -> "+endpoint(c.To))
	}
	return lines
}

func connectionLess(a, b flowast.Connection) bool {
	if a.From.Node != b.From.Node {
		return a.From.Node < b.From.Node
	}
	if a.From.Port != b.From.Port {
		return a.From.Port < b.From.Port
	}
	if a.To.Node != b.To.Node {
		return a.To.Node < b.To.Node
	}
	return a.To.Port < b.To.Port
}

func endpoint(ref flowast.PortRef) string {
	s := ref.Node + "." + ref.Port
	if ref.Scope != "" {
		s += ":" + ref.Scope
	}
	return s
}

// triggerLines renders the workflow-option tags (spec §6.1): `@retries`,
// `@timeout`, `@throttle`, `@trigger`, `@cancelOn`.
func triggerLines(w *flowast.Workflow) []string {
	var lines []string
	o := w.Options
	if o.TriggerEvent != "" || o.TriggerCron != "" {
		var parts []string
		if o.TriggerEvent != "" {
			parts = append(parts, "event="+quote(o.TriggerEvent))
		}
		if o.TriggerCron != "" {
			parts = append(parts, "cron="+quote(o.TriggerCron))
		}
		lines = append(lines, "@trigger "+strings.Join(parts, " "))
	}
	if o.CancelOnEvent != "" {
		var parts []string
		parts = append(parts, "event="+quote(o.CancelOnEvent))
		if o.CancelOnMatch != "" {
			parts = append(parts, "match="+quote(o.CancelOnMatch))
		}
		if o.CancelOnTimeout != "" {
			parts = append(parts, "timeout="+quote(o.CancelOnTimeout))
		}
		lines = append(lines, "@cancelOn "+strings.Join(parts, " "))
	}
	if o.HasRetries {
		lines = append(lines, fmt.Sprintf("@retries %d", o.Retries))
	}
	if o.Timeout != "" {
		lines = append(lines, "@timeout "+quote(o.Timeout))
	}
	if o.HasThrottleLimit {
		line := fmt.Sprintf("@throttle limit=%d", o.ThrottleLimit)
		if o.ThrottlePeriod != "" {
			line += " period=" + quote(o.ThrottlePeriod)
		}
		lines = append(lines, line)
	}
	return lines
}

// quote escapes a literal for embedding in an annotation string token
// (spec §4.2's "String unescaping"): `"` -> `\"`, `*/` -> `*\/` so an
// embedded value can never prematurely close the enclosing doc comment.
func quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "*/", `*\/`)
	return `"` + s + `"`
}

// Lines joins rendered annotation lines into a doc-comment body, one `//`
// line each, ready to precede a function declaration (spec §6.1's
// "leading `* ` optional" — flowc always emits the `//` line-comment
// form, which the lexer/assembler's docLines already normalizes either
// way).
func Lines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString("// ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}
