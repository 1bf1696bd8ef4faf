// Package validate runs the structural, referential and port-compatibility
// checks of spec §4.6 over an assembled workflow AST. It does not check
// reachability: an instance that no connection leads to is not reported.
// Its one change to the AST is setting Workflow.Async when a sync
// workflow uses an async node type; otherwise it only writes to the
// diagnostic sink it returns.
package validate

import (
	"fmt"
	"sort"

	"github.com/flowgraph/flowc/internal/analyzer"
	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/diagnostic"
)

// Options tunes validation behavior (spec §4.6, §7).
type Options struct {
	// StrictTypes promotes OBJECT port-type mismatches from warnings to
	// errors (spec §4.6 "Structural type mismatch").
	StrictTypes bool
	// KnownFunctions lists every function name found in the host source,
	// annotated or not — used for the "function exists but has no
	// nodeType annotation" hint (spec §4.6 "Unannotated hint").
	KnownFunctions []string
}

type validator struct {
	w            *flowast.Workflow
	sink         *diagnostic.Sink
	opts         Options
	unknownTypes map[string]bool // node-type names that don't resolve, for cascade dedup
	isFunction   map[string]bool
}

// Validate runs every check and returns the accumulated diagnostics.
// Presence of an Error-severity diagnostic (sink.HasErrors()) signals the
// caller should not proceed to emission.
func Validate(w *flowast.Workflow, opts Options) *diagnostic.Sink {
	v := &validator{
		w:            w,
		sink:         diagnostic.NewSink(),
		opts:         opts,
		unknownTypes: map[string]bool{},
		isFunction:   map[string]bool{},
	}
	for _, f := range opts.KnownFunctions {
		v.isFunction[f] = true
	}

	v.checkNodeTypes()
	v.checkConnections()
	v.checkRequiredPorts()
	v.checkTypeCompatibility()
	v.checkAsyncCorrectness()
	v.checkScopeParents()
	v.checkCycle()
	return v.sink
}

func (v *validator) typeNames() []string {
	names := make([]string, 0, len(v.w.NodeTypes))
	for n := range v.w.NodeTypes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// checkNodeTypes flags instances referencing an undeclared node type. Any
// type found unknown here is remembered so every downstream check on
// instances of that type is suppressed (spec §4.6, "Cascade dedup").
func (v *validator) checkNodeTypes() {
	for _, id := range v.w.InstanceOrder {
		inst := v.w.Instances[id]
		if _, ok := v.w.NodeType(inst.Type); ok {
			continue
		}
		if v.unknownTypes[inst.Type] {
			continue // already reported for a sibling instance of the same type
		}
		v.unknownTypes[inst.Type] = true

		d := diagnostic.Diagnostic{
			Severity: diagnostic.Error,
			Code:     "UNKNOWN_NODE_TYPE",
			Message:  fmt.Sprintf("instance %q references unknown node type %q", id, inst.Type),
		}
		if v.isFunction[inst.Type] {
			d.Message += ": function exists but has no nodeType annotation"
		} else {
			d.Suggestions = suggest(inst.Type, v.typeNames())
		}
		v.sink.Add(d)
	}
}

func (v *validator) instanceTypeUnknown(id string) bool {
	inst, ok := v.w.Instance(id)
	if !ok {
		return false
	}
	return v.unknownTypes[inst.Type]
}

// checkConnections validates every connection's endpoints: the node must
// be Start/Exit or a declared instance (and not of an already-reported
// unknown type), and the port must be declared on that instance's type
// (or among the workflow's own Start/Exit ports).
func (v *validator) checkConnections() {
	nodeNames := v.nodeNames()
	for _, c := range v.w.Connections {
		v.checkEndpoint(c.From, "source", nodeNames)
		v.checkEndpoint(c.To, "target", nodeNames)
	}
}

func (v *validator) nodeNames() []string {
	names := []string{flowast.Start, flowast.Exit}
	names = append(names, v.w.InstanceOrder...)
	return names
}

func (v *validator) checkEndpoint(ref flowast.PortRef, role string, nodeNames []string) {
	if ref.Node == flowast.Start {
		if ref.Port != flowast.PortExecute {
			if !v.hasStartPort(ref.Port) {
				v.sink.Add(diagnostic.Diagnostic{
					Severity: diagnostic.Error,
					Code:     fmt.Sprintf("UNKNOWN_%s_PORT", upperRole(role)),
					Message:  fmt.Sprintf("Start has no input port %q", ref.Port),
				})
			}
		}
		return
	}
	if ref.Node == flowast.Exit {
		if ref.Port != flowast.PortOnSuccess && ref.Port != flowast.PortOnFailure && !v.hasExitPort(ref.Port) {
			v.sink.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Error,
				Code:     fmt.Sprintf("UNKNOWN_%s_PORT", upperRole(role)),
				Message:  fmt.Sprintf("Exit has no output port %q", ref.Port),
			})
		}
		return
	}

	inst, ok := v.w.Instance(ref.Node)
	if !ok {
		v.sink.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.Error,
			Code:        fmt.Sprintf("UNKNOWN_%s_NODE", upperRole(role)),
			Message:     fmt.Sprintf("connection references undeclared node %q", ref.Node),
			Suggestions: suggest(ref.Node, nodeNames),
		})
		return
	}
	if v.unknownTypes[inst.Type] {
		return // cascade dedup: already reported at the type level
	}
	nt, ok := v.w.NodeType(inst.Type)
	if !ok {
		return
	}
	if ref.Scope != "" {
		return // scope-qualified ports are validated by checkScopeParents
	}
	var found bool
	if role == "source" {
		_, found = nt.Output(ref.Port)
	} else {
		_, found = nt.Input(ref.Port)
	}
	if !found {
		portNames := portNameList(nt, role)
		v.sink.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.Error,
			Code:        fmt.Sprintf("UNKNOWN_%s_PORT", upperRole(role)),
			Message:     fmt.Sprintf("%s %q has no %s port %q", inst.Type, ref.Node, portKind(role), ref.Port),
			Suggestions: suggest(ref.Port, portNames),
		})
	}
}

func portKind(role string) string {
	if role == "source" {
		return "output"
	}
	return "input"
}

func upperRole(role string) string {
	if role == "source" {
		return "SOURCE"
	}
	return "TARGET"
}

func portNameList(nt *flowast.NodeType, role string) []string {
	ports := nt.Inputs
	if role == "source" {
		ports = nt.Outputs
	}
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}

func (v *validator) hasStartPort(name string) bool {
	for _, p := range v.w.Inputs {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (v *validator) hasExitPort(name string) bool {
	for _, p := range v.w.Outputs {
		if p.Name == name {
			return true
		}
	}
	return false
}

// checkRequiredPorts flags non-optional, no-default input ports with no
// incoming connection: the emitter falls back to `undefined` there (spec
// §7, "required port unconnected (fallback undefined)").
func (v *validator) checkRequiredPorts() {
	for _, id := range v.w.InstanceOrder {
		if v.instanceTypeUnknown(id) {
			continue
		}
		nt, ok := v.w.InstanceType(id)
		if !ok {
			continue
		}
		for _, in := range nt.Inputs {
			if in.Optional || in.HasDefault || in.Hidden {
				continue
			}
			if len(v.w.ConnectionsTo(id, in.Name)) > 0 {
				continue
			}
			v.sink.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Warning,
				Code:     "UNDEFINED_NODE",
				Message:  fmt.Sprintf("%s %q has no connection to required input %q; will fall back to undefined", nt.Name, id, in.Name),
			})
		}
	}
}

// checkTypeCompatibility flags OBJECT-typed connections whose endpoints
// carry differing host type strings (spec §4.6, "Structural type
// mismatch"). Under CUSTOM executeWhen the target node has opted out of
// the default guard shape, so the mismatch is never promoted to an error
// even under strictTypes (Open Question resolution, see DESIGN.md).
func (v *validator) checkTypeCompatibility() {
	for _, c := range v.w.Connections {
		if c.From.Scope != "" || c.To.Scope != "" {
			continue
		}
		srcType, srcHost, ok := v.portHostType(c.From, true)
		if !ok || srcType != flowast.TObject {
			continue
		}
		dstType, dstHost, ok := v.portHostType(c.To, false)
		if !ok || dstType != flowast.TObject {
			continue
		}
		if srcHost == "" || dstHost == "" || srcHost == dstHost {
			continue
		}
		severity := diagnostic.Warning
		if v.opts.StrictTypes && !v.usesCustomGuard(c.To.Node) {
			severity = diagnostic.Error
		}
		v.sink.Add(diagnostic.Diagnostic{
			Severity: severity,
			Code:     "OBJECT_TYPE_MISMATCH",
			Message:  fmt.Sprintf("%s.%s (%s) connects to %s.%s (%s)", c.From.Node, c.From.Port, srcHost, c.To.Node, c.To.Port, dstHost),
		})
	}
}

func (v *validator) usesCustomGuard(instanceID string) bool {
	nt, ok := v.w.InstanceType(instanceID)
	if !ok {
		return false
	}
	ew := nt.ExecuteWhen
	if inst, ok := v.w.Instance(instanceID); ok && inst.Config != nil && inst.Config.ExecuteWhen != nil {
		ew = *inst.Config.ExecuteWhen
	}
	return ew == flowast.Custom
}

func (v *validator) portHostType(ref flowast.PortRef, isOutput bool) (flowast.DataType, string, bool) {
	if ref.Node == flowast.Start || ref.Node == flowast.Exit {
		ports := v.w.Inputs
		if ref.Node == flowast.Exit {
			ports = v.w.Outputs
		}
		for _, p := range ports {
			if p.Name == ref.Port {
				return p.DataType, p.HostType, true
			}
		}
		return 0, "", false
	}
	nt, ok := v.w.InstanceType(ref.Node)
	if !ok {
		return 0, "", false
	}
	var p flowast.PortDef
	if isOutput {
		p, ok = nt.Output(ref.Port)
	} else {
		p, ok = nt.Input(ref.Port)
	}
	if !ok {
		return 0, "", false
	}
	return p.DataType, p.HostType, true
}

// checkAsyncCorrectness implements spec §4.6's "Workflow-async
// correctness": a synchronous workflow referencing an async node is
// auto-promoted with a warning; the reverse (async workflow, all-sync
// nodes) is allowed without comment.
func (v *validator) checkAsyncCorrectness() {
	if v.w.UserSpecifiedAsync {
		v.w.Async = true
		return
	}
	for _, id := range v.w.InstanceOrder {
		if v.instanceTypeUnknown(id) {
			continue
		}
		nt, ok := v.w.InstanceType(id)
		if !ok || !nt.IsAsync {
			continue
		}
		v.w.Async = true
		v.sink.Add(diagnostic.Diagnostic{
			Severity: diagnostic.Warning,
			Code:     "ASYNC_PROMOTED",
			Message:  fmt.Sprintf("workflow %q declared synchronous but references async node %q; generating as async", v.w.Name, id),
		})
		return
	}
}

// checkScopeParents validates that every parent reference targets a
// declared instance whose type actually opens the named scope (spec §3's
// NodeInstance invariant).
func (v *validator) checkScopeParents() {
	for _, id := range v.w.InstanceOrder {
		inst := v.w.Instances[id]
		if inst.Config == nil || inst.Config.Parent == nil {
			continue
		}
		p := inst.Config.Parent
		parentType, ok := v.w.InstanceType(p.ID)
		if !ok {
			v.sink.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Error,
				Code:     "UNDEFINED_NODE",
				Message:  fmt.Sprintf("%q declares parent %q which is not a declared instance", id, p.ID),
			})
			continue
		}
		if !parentType.OpensScope(p.Scope) {
			v.sink.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Error,
				Code:     "ILLEGAL_SCOPE_PARENT",
				Message:  fmt.Sprintf("%q's parent %q (type %s) does not open scope %q", id, p.ID, parentType.Name, p.Scope),
			})
		}
	}
}

// checkCycle surfaces the analyzer's structural cycle detection as a
// validator diagnostic (spec §4.6 lists CYCLE among its error codes).
func (v *validator) checkCycle() {
	if _, err := analyzer.Analyze(v.w); err != nil {
		v.sink.Add(diagnostic.Diagnostic{
			Severity: diagnostic.Error,
			Code:     "CYCLE",
			Message:  err.Error(),
		})
	}
}
