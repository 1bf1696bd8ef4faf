package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// PathAnnotation is the parsed form of a `@path` sugar macro: a chain of
// node hops connected by `->`, each optionally qualified by a `ok`/`fail`
// route (spec §3, §4.5).
type PathAnnotation struct {
	Steps []PathHop
}

// PathHop is one node in a @path chain.
type PathHop struct {
	Node  string
	Route string
}

// ParsePath parses a `@path` annotation line.
func ParsePath(toks []token.Token, line int, sink *diagnostic.Sink) (PathAnnotation, bool) {
	c := newCursor(toks)
	hop, ok := parsePathHop(c)
	if !ok {
		fail(sink, line, "@path", "node name", describeNext(c))
		return PathAnnotation{}, false
	}
	pa := PathAnnotation{Steps: []PathHop{hop}}
	for {
		tok, ok := c.peek()
		if !ok || tok.Kind != token.Arrow {
			break
		}
		c.pos++
		hop, ok := parsePathHop(c)
		if !ok {
			fail(sink, line, "@path", "node name", describeNext(c))
			return PathAnnotation{}, false
		}
		pa.Steps = append(pa.Steps, hop)
	}
	if !c.done() {
		fail(sink, line, "@path", "end of line", describeNext(c))
		return PathAnnotation{}, false
	}
	return pa, true
}

func parsePathHop(c *cursor) (PathHop, bool) {
	node, ok := c.expect(token.Ident)
	if !ok {
		return PathHop{}, false
	}
	hop := PathHop{Node: node.Text}
	if tok, ok := c.peek(); ok && tok.Kind == token.Route {
		c.pos++
		hop.Route = tok.Text
	}
	return hop, true
}

// MapAnnotation is the parsed form of a `@map` sugar macro: an instance
// that iterates childType over a source port, wiring one input/output
// port pair per element (spec §3, §4.5).
type MapAnnotation struct {
	InstanceID string
	ChildType  string
	InputPort  string
	OutputPort string
	SourceNode string
	SourcePort string
}

// ParseMap parses a `@map` annotation line:
// `<id> <ChildType> [(<inputPort> -> <outputPort>)] over <node>.<port>`.
// The port-rename parenthetical is optional (spec §6.1); when absent the
// assembler defaults input/output port names from the child type.
func ParseMap(toks []token.Token, line int, sink *diagnostic.Sink) (MapAnnotation, bool) {
	c := newCursor(toks)
	id, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@map", "instance id", describeNext(c))
		return MapAnnotation{}, false
	}
	childType, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@map", "child type name", describeNext(c))
		return MapAnnotation{}, false
	}
	var in, out token.Token
	if tok, ok := c.peek(); ok && tok.Kind == token.LParen {
		c.pos++
		in, ok = c.expect(token.Ident)
		if !ok {
			fail(sink, line, "@map", "input port", describeNext(c))
			return MapAnnotation{}, false
		}
		if _, ok := c.expect(token.Arrow); !ok {
			fail(sink, line, "@map", "'->'", describeNext(c))
			return MapAnnotation{}, false
		}
		out, ok = c.expect(token.Ident)
		if !ok {
			fail(sink, line, "@map", "output port", describeNext(c))
			return MapAnnotation{}, false
		}
		if _, ok := c.expect(token.RParen); !ok {
			fail(sink, line, "@map", "')'", describeNext(c))
			return MapAnnotation{}, false
		}
	}
	if _, ok := c.expect(token.Over); !ok {
		fail(sink, line, "@map", "'over'", describeNext(c))
		return MapAnnotation{}, false
	}
	srcNode, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@map", "source node", describeNext(c))
		return MapAnnotation{}, false
	}
	if _, ok := c.expect(token.Dot); !ok {
		fail(sink, line, "@map", "'.'", describeNext(c))
		return MapAnnotation{}, false
	}
	srcPort, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@map", "source port", describeNext(c))
		return MapAnnotation{}, false
	}
	return MapAnnotation{
		InstanceID: id.Text,
		ChildType:  childType.Text,
		InputPort:  in.Text,
		OutputPort: out.Text,
		SourceNode: srcNode.Text,
		SourcePort: srcPort.Text,
	}, true
}
