package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// NodeAnnotation is the parsed form of
// `@node INSTANCE TYPE [PARENT.SCOPE] [attrs]` (spec §3, §4.2, §6.1).
type NodeAnnotation struct {
	ID          string
	TypeName    string
	ParentID    string
	ParentScope string
	Attrs       []Attribute
}

// ParseNode parses a `@node` annotation line's tokens (the leading Tag
// token already consumed by the caller's dispatch).
func ParseNode(toks []token.Token, line int, sink *diagnostic.Sink) (NodeAnnotation, bool) {
	c := newCursor(toks)
	id, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@node", "instance id", describeNext(c))
		return NodeAnnotation{}, false
	}
	typ, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@node", "type name", describeNext(c))
		return NodeAnnotation{}, false
	}
	na := NodeAnnotation{ID: id.Text, TypeName: typ.Text}

	// Optional `PARENT.SCOPE` reference: only consumed when a bare
	// ident '.' ident sits ahead of any attribute bracket.
	if tok, ok := c.peek(); ok && tok.Kind == token.Ident {
		save := c.pos
		c.pos++
		if dotTok, ok := c.peek(); ok && dotTok.Kind == token.Dot {
			c.pos++
			if scopeTok, ok := c.expect(token.Ident); ok {
				na.ParentID = tok.Text
				na.ParentScope = scopeTok.Text
			} else {
				c.pos = save
			}
		} else {
			c.pos = save
		}
	}

	for !c.done() {
		attrs, ok := parseBracketAttrs(c)
		if !ok {
			fail(sink, line, "@node", "attribute list", describeNext(c))
			return NodeAnnotation{}, false
		}
		na.Attrs = append(na.Attrs, attrs...)
	}
	return na, true
}

func describeNext(c *cursor) string {
	tok, ok := c.peek()
	if !ok {
		return "end of line"
	}
	return tok.Kind.String() + " " + tok.Text
}
