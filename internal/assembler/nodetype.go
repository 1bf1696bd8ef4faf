package assembler

import (
	"go/token"
	"sort"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/grammar"
)

// buildNodeType assembles an ast.NodeType from a RoleNodeType block: its
// `@input`/`@output`/`@step` lines plus the host function's own parameter
// and result lists, which supply the type inheritance described in
// spec §4.3 step 3 ("where the host function's parameter or return-field
// type is provided, apply it; otherwise default to ANY") and the
// direction inference for `@step` described in spec §4.2 ("direction is
// derived from the host signature").
func buildNodeType(fset *token.FileSet, b Block, res BlockResult) *flowast.NodeType {
	sig := extractSignature(fset, b.Decl)
	paramsByName := indexFields(sig.Params)
	resultsByName := indexFields(sig.Results)

	nt := &flowast.NodeType{
		Name:         b.FuncName,
		FunctionName: b.FuncName,
		IsAsync:      sig.Async,
	}

	hasExecuteInput := false
	for _, p := range res.Ports {
		switch p.Tag {
		case "@input":
			port := portDefFromAnnotation(p, paramsByName, false)
			nt.Inputs = append(nt.Inputs, port)
			if port.Name == flowast.PortExecute {
				hasExecuteInput = true
			}
		case "@output":
			port := portDefFromAnnotation(p, resultsByName, true)
			nt.Outputs = append(nt.Outputs, port)
		case "@step":
			if _, isInput := paramsByName[p.Name]; isInput {
				port := portDefFromAnnotation(p, paramsByName, false)
				port.DataType = flowast.TStep
				port.IsControlFlow = true
				nt.Inputs = append(nt.Inputs, port)
				if port.Name == flowast.PortExecute {
					hasExecuteInput = true
				}
			} else {
				port := portDefFromAnnotation(p, resultsByName, true)
				port.DataType = flowast.TStep
				port.IsControlFlow = true
				nt.Outputs = append(nt.Outputs, port)
			}
		}
	}

	for _, out := range nt.Outputs {
		if out.Name == flowast.PortOnSuccess {
			nt.HasSuccessPort = true
		}
		if out.Name == flowast.PortOnFailure {
			nt.HasFailurePort = true
		}
	}
	nt.Expression = !hasExecuteInput

	orderPorts(nt.Inputs)
	orderPorts(nt.Outputs)

	for _, s := range res.Scopes {
		nt.ScopeNames = append(nt.ScopeNames, s.Name)
		for _, a := range s.Attrs {
			applyNodeTypeScopeAttr(nt, a)
		}
	}

	for _, tr := range res.Triggers {
		for _, a := range tr.Attrs {
			if a.Key == "pullExecution" && a.Kind != 0 {
				nt.DefaultConfig = &flowast.DefaultConfig{TriggerPort: a.Ident}
			}
		}
	}

	return nt
}

func indexFields(fields []namedField) map[string]namedField {
	out := make(map[string]namedField, len(fields))
	for _, f := range fields {
		if f.Name != "" {
			out[f.Name] = f
		}
	}
	return out
}

func portDefFromAnnotation(p grammar.PortAnnotation, sig map[string]namedField, isOutput bool) flowast.PortDef {
	port := flowast.PortDef{Name: p.Name, DataType: flowast.TAny}
	if f, ok := sig[p.Name]; ok {
		port.DataType = f.DataType
		port.HostType = f.HostType
	}
	if isReservedStepPort(p.Name) {
		port.DataType = flowast.TStep
		port.IsControlFlow = true
	}
	for _, a := range p.Attrs {
		applyPortAttr(&port, a)
	}
	return port
}

func isReservedStepPort(name string) bool {
	switch name {
	case flowast.PortExecute, flowast.PortOnSuccess, flowast.PortOnFailure,
		flowast.ScopedStart, flowast.ScopedSuccess, flowast.ScopedFailure:
		return true
	default:
		return false
	}
}

func applyPortAttr(port *flowast.PortDef, a grammar.Attribute) {
	switch a.Key {
	case "order":
		port.Order = a.Int
	case "scope":
		port.Scope = a.Ident
	case "default":
		port.HasDefault = true
		port.Default = a.Str
	case "label":
		port.Label = a.Str
	case "expression":
		port.Expression = true
	case "hidden":
		port.Hidden = true
	case "failure":
		port.Failure = true
	case "optional":
		port.Optional = true
	}
}

func applyNodeTypeScopeAttr(nt *flowast.NodeType, a grammar.Attribute) {
	switch a.Key {
	case "label":
		// Scope-level label attributes don't have a home on NodeType
		// beyond the scope name itself; recorded for the re-emitter via
		// the raw annotation pass instead (internal/reemit), not here.
	}
}

// orderPorts applies spec §4.3 step 4: mandatory ports first, then
// explicit order, then source order, stable on name as final tiebreak.
func orderPorts(ports []flowast.PortDef) {
	sort.SliceStable(ports, func(i, j int) bool {
		mi, mj := ports[i].IsControlFlow, ports[j].IsControlFlow
		if mi != mj {
			return mi
		}
		if ports[i].Order != ports[j].Order {
			return ports[i].Order < ports[j].Order
		}
		return ports[i].Name < ports[j].Name
	})
}
