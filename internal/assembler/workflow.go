package assembler

import (
	"go/token"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/grammar"
)

// buildWorkflow assembles an ast.Workflow from a RoleWorkflow block, its
// host function's own port-type-inheriting signature, and the node types
// already known in the surrounding file (spec §4.3).
func buildWorkflow(fset *token.FileSet, b Block, res BlockResult, knownTypes map[string]*flowast.NodeType, sink *diagnostic.Sink) *flowast.Workflow {
	sig := extractSignature(fset, b.Decl)
	paramsByName := indexFields(sig.Params)
	resultsByName := indexFields(sig.Results)

	w := flowast.New(b.FuncName)
	w.UserSpecifiedAsync = sig.Async

	for _, p := range res.Ports {
		switch p.Tag {
		case "@input":
			w.Inputs = append(w.Inputs, portDefFromAnnotation(p, paramsByName, false))
		case "@output":
			w.Outputs = append(w.Outputs, portDefFromAnnotation(p, resultsByName, true))
		}
	}
	orderPorts(w.Inputs)
	orderPorts(w.Outputs)

	// @fwImport: first alias binding wins (Open Question #3, DESIGN.md);
	// every later duplicate alias is a warning, not an error, since it
	// doesn't affect generated-code correctness, only authoring hygiene.
	localTypes := make(map[string]*flowast.NodeType, len(knownTypes))
	for k, v := range knownTypes {
		localTypes[k] = v
	}
	boundAliases := map[string]bool{}
	for _, imp := range res.Imports {
		if boundAliases[imp.Alias] {
			sink.Warnf("DUPLICATE_IMPORT", 0, "alias %q already imported in this workflow; keeping the first binding", imp.Alias)
			continue
		}
		boundAliases[imp.Alias] = true
		localTypes[imp.Alias] = &flowast.NodeType{
			Name:         imp.Alias,
			FunctionName: imp.TypeName,
			Variant:      flowast.VariantImportedWorkflow,
			ImportSource: imp.Specifier,
			HasSuccessPort: true,
			HasFailurePort: true,
		}
	}

	positions := map[string]grammar.PositionAnnotation{}
	for _, pos := range res.Positions {
		positions[pos.ID] = pos
	}

	for _, na := range res.Nodes {
		if _, ok := localTypes[na.TypeName]; !ok {
			sink.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Error,
				Code:     "UNKNOWN_NODE_TYPE",
				Message:  "node " + na.ID + " references unknown type " + na.TypeName,
			})
		}
		inst := &flowast.NodeInstance{ID: na.ID, Type: na.TypeName, Config: instanceConfigFromAttrs(na, positions)}
		w.AddInstance(inst)
	}

	// Resolve parent/scope children after every instance exists, so scope
	// ordering reflects @node source order rather than scope-declaration
	// order.
	for _, id := range w.InstanceOrder {
		inst := w.Instances[id]
		if inst.Config == nil || inst.Config.Parent == nil {
			continue
		}
		p := inst.Config.Parent
		children := w.ScopeChildren(p.ID, p.Scope)
		w.CreateScope(p.ID, p.Scope, append(append([]string(nil), children...), id))
	}

	for _, ca := range res.Connects {
		w.AddConnection(flowast.Connection{
			From: flowast.PortRef{Node: ca.From.Node, Port: ca.From.Port, Scope: ca.From.Scope},
			To:   flowast.PortRef{Node: ca.To.Node, Port: ca.To.Port, Scope: ca.To.Scope},
		})
	}

	for _, pm := range res.Paths {
		var steps []flowast.PathStep
		for i, s := range pm.Steps {
			// A trailing Exit hop is implied by the macro, not a step.
			if i == len(pm.Steps)-1 && s.Node == flowast.Exit {
				continue
			}
			steps = append(steps, flowast.PathStep{Node: s.Node, Route: s.Route})
		}
		w.PathMacros = append(w.PathMacros, flowast.PathMacro{Steps: steps})
	}
	for _, mm := range res.Maps {
		w.MapMacros = append(w.MapMacros, flowast.MapMacro{
			InstanceID: mm.InstanceID,
			SourceNode: mm.SourceNode,
			SourcePort: mm.SourcePort,
			InputPort:  mm.InputPort,
			OutputPort: mm.OutputPort,
		})
	}

	applyWorkflowOptions(w, res.Triggers)
	return w
}

func instanceConfigFromAttrs(na grammar.NodeAnnotation, positions map[string]grammar.PositionAnnotation) *flowast.InstanceConfig {
	cfg := &flowast.InstanceConfig{Ports: map[string]flowast.PortConfig{}}
	if na.ParentID != "" {
		cfg.Parent = &flowast.ParentRef{ID: na.ParentID, Scope: na.ParentScope}
	}
	if pos, ok := positions[na.ID]; ok {
		cfg.Position = &flowast.Position{X: pos.X, Y: pos.Y}
	}
	for _, a := range na.Attrs {
		switch a.Key {
		case "label":
			cfg.Label = a.Str
		case "color":
			cfg.Color = identOrStr(a)
		case "icon":
			cfg.Icon = identOrStr(a)
		case "pullExecution":
			cfg.PullExecution = &flowast.PullExecution{TriggerPort: a.Ident}
		case "minimized":
			cfg.Minimized = true
		case "tags":
			cfg.Tags = append(cfg.Tags, flowast.Tag{Label: identOrStr(a)})
		}
	}
	return cfg
}

func identOrStr(a grammar.Attribute) string {
	if a.Str != "" {
		return a.Str
	}
	return a.Ident
}

func applyWorkflowOptions(w *flowast.Workflow, triggers []grammar.TriggerAnnotation) {
	for _, t := range triggers {
		switch t.Tag {
		case "@trigger":
			for _, a := range t.Attrs {
				switch a.Key {
				case "event":
					w.Options.TriggerEvent = a.Str
				case "cron":
					w.Options.TriggerCron = a.Str
				}
			}
		case "@cancelOn":
			for _, a := range t.Attrs {
				switch a.Key {
				case "event":
					w.Options.CancelOnEvent = a.Str
				case "match":
					w.Options.CancelOnMatch = a.Str
				case "timeout":
					w.Options.CancelOnTimeout = a.Str
				}
			}
		case "@retries":
			w.Options.Retries = t.Attrs[0].Int
			w.Options.HasRetries = true
		case "@timeout":
			w.Options.Timeout = t.Attrs[0].Str
		case "@throttle":
			for _, a := range t.Attrs {
				switch a.Key {
				case "limit":
					w.Options.ThrottleLimit = a.Int
					w.Options.HasThrottleLimit = true
				case "period":
					w.Options.ThrottlePeriod = a.Str
				}
			}
		}
	}
}
