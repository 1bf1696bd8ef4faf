package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// ScopeAnnotation is the parsed form of `@scope <name> [attrs]`
// (spec §3, §4.2).
type ScopeAnnotation struct {
	Name  string
	Attrs []Attribute
}

// ParseScope parses a `@scope` annotation line.
func ParseScope(toks []token.Token, line int, sink *diagnostic.Sink) (ScopeAnnotation, bool) {
	c := newCursor(toks)
	name, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@scope", "scope name", describeNext(c))
		return ScopeAnnotation{}, false
	}
	sa := ScopeAnnotation{Name: name.Text}
	for !c.done() {
		attrs, ok := parseBracketAttrs(c)
		if !ok {
			fail(sink, line, "@scope", "attribute list", describeNext(c))
			return ScopeAnnotation{}, false
		}
		sa.Attrs = append(sa.Attrs, attrs...)
	}
	return sa, true
}
