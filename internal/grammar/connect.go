package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// Endpoint is one side of a `@connect` edge: `node.port[:scope]`.
type Endpoint struct {
	Node  string
	Port  string
	Scope string
}

// ConnectAnnotation is the parsed form of `@connect <endpoint> -> <endpoint>`
// (spec §3, §4.2).
type ConnectAnnotation struct {
	From Endpoint
	To   Endpoint
}

// ParseConnect parses a `@connect` annotation line.
func ParseConnect(toks []token.Token, line int, sink *diagnostic.Sink) (ConnectAnnotation, bool) {
	c := newCursor(toks)
	from, ok := parseEndpoint(c)
	if !ok {
		fail(sink, line, "@connect", "endpoint", describeNext(c))
		return ConnectAnnotation{}, false
	}
	if _, ok := c.expect(token.Arrow); !ok {
		fail(sink, line, "@connect", "'->'", describeNext(c))
		return ConnectAnnotation{}, false
	}
	to, ok := parseEndpoint(c)
	if !ok {
		fail(sink, line, "@connect", "endpoint", describeNext(c))
		return ConnectAnnotation{}, false
	}
	return ConnectAnnotation{From: from, To: to}, true
}

func parseEndpoint(c *cursor) (Endpoint, bool) {
	node, ok := c.expect(token.Ident)
	if !ok {
		return Endpoint{}, false
	}
	if _, ok := c.expect(token.Dot); !ok {
		return Endpoint{}, false
	}
	port, ok := c.expect(token.Ident)
	if !ok {
		return Endpoint{}, false
	}
	ep := Endpoint{Node: node.Text, Port: port.Text}
	if tok, ok := c.peek(); ok && tok.Kind == token.Colon {
		c.pos++
		scope, ok := c.expect(token.Ident)
		if !ok {
			return Endpoint{}, false
		}
		ep.Scope = scope.Text
	}
	return ep, true
}
