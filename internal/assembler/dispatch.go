package assembler

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/grammar"
	"github.com/flowgraph/flowc/internal/token"
)

// BlockResult accumulates every structured annotation parsed out of one
// doc-comment block, bucketed by kind. A line that fails to lex or parse
// contributes a diagnostic to the sink and is otherwise dropped (spec
// §4.1, §4.2's "line ignored" failure mode) — it never aborts the rest of
// the block.
type BlockResult struct {
	Nodes    []grammar.NodeAnnotation
	Ports    []grammar.PortAnnotation
	Connects []grammar.ConnectAnnotation
	Scopes   []grammar.ScopeAnnotation
	Paths    []grammar.PathAnnotation
	Maps     []grammar.MapAnnotation
	Positions []grammar.PositionAnnotation
	Triggers []grammar.TriggerAnnotation
	Imports  []grammar.ImportAnnotation
}

// dispatch lexes and parses every raw line in a block, appending
// diagnostics for any line that fails.
func dispatch(lines []RawLine, sink *diagnostic.Sink) BlockResult {
	var res BlockResult
	for _, l := range lines {
		toks, ok := token.Lex(l.Text)
		if !ok || len(toks) == 0 || toks[0].Kind != token.Tag {
			sink.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Warning,
				Code:     "LEXICAL",
				Message:  "unrecognized character in annotation line, line ignored",
				Line:     l.Line,
			})
			continue
		}
		tag := toks[0].Text
		body := toks[1:]
		switch tag {
		case "@node":
			if v, ok := grammar.ParseNode(body, l.Line, sink); ok {
				res.Nodes = append(res.Nodes, v)
			}
		case "@input", "@output", "@step":
			if v, ok := grammar.ParsePort(tag, body, l.Line, sink); ok {
				res.Ports = append(res.Ports, v)
			}
		case "@connect":
			if v, ok := grammar.ParseConnect(body, l.Line, sink); ok {
				res.Connects = append(res.Connects, v)
			}
		case "@scope":
			if v, ok := grammar.ParseScope(body, l.Line, sink); ok {
				res.Scopes = append(res.Scopes, v)
			}
		case "@path":
			if v, ok := grammar.ParsePath(body, l.Line, sink); ok {
				res.Paths = append(res.Paths, v)
			}
		case "@map":
			if v, ok := grammar.ParseMap(body, l.Line, sink); ok {
				res.Maps = append(res.Maps, v)
			}
		case "@position":
			if v, ok := grammar.ParsePosition(body, l.Line, sink); ok {
				res.Positions = append(res.Positions, v)
			}
		case "@trigger", "@cancelOn", "@retries", "@timeout", "@throttle":
			if v, ok := grammar.ParseTrigger(tag, body, l.Line, sink); ok {
				res.Triggers = append(res.Triggers, v)
			}
		case "@fwImport":
			if v, ok := grammar.ParseImport(body, l.Line, sink); ok {
				res.Imports = append(res.Imports, v)
			}
		case "@label":
			// A bare workflow/node label; treated as a single keyword
			// attribute so callers don't need a tenth bucket for it.
			if len(body) > 0 && body[0].Kind == token.Str {
				res.Triggers = append(res.Triggers, grammar.TriggerAnnotation{
					Tag:   "@label",
					Attrs: []grammar.Attribute{{Key: "label", Kind: token.Str, Str: body[0].Text}},
				})
			}
		default:
			sink.Add(diagnostic.Diagnostic{
				Severity: diagnostic.Warning,
				Code:     "SYNTAX",
				Message:  "unrecognized annotation tag " + tag + ", line ignored",
				Line:     l.Line,
			})
		}
	}
	return res
}
