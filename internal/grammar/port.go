package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// PortAnnotation is the parsed form of `@input`/`@output`/`@step <name>
// [attrs]` (spec §3, §4.2). Tag distinguishes which of the three kinds
// produced it, since all three share one grammar shape.
type PortAnnotation struct {
	Tag   string
	Name  string
	Attrs []Attribute
}

// ParsePort parses an `@input`, `@output`, or `@step` annotation line.
func ParsePort(tag string, toks []token.Token, line int, sink *diagnostic.Sink) (PortAnnotation, bool) {
	c := newCursor(toks)
	name, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, tag, "port name", describeNext(c))
		return PortAnnotation{}, false
	}
	pa := PortAnnotation{Tag: tag, Name: name.Text}
	for !c.done() {
		attrs, ok := parseBracketAttrs(c)
		if !ok {
			fail(sink, line, tag, "attribute list", describeNext(c))
			return PortAnnotation{}, false
		}
		pa.Attrs = append(pa.Attrs, attrs...)
	}
	return pa, true
}
