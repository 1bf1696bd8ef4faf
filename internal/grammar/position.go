package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// PositionAnnotation is the parsed form of `@position <id> <x> <y>`
// (spec §3, §4.2) — editor layout, round-tripped but never interpreted.
type PositionAnnotation struct {
	ID   string
	X, Y int
}

// ParsePosition parses a `@position` annotation line.
func ParsePosition(toks []token.Token, line int, sink *diagnostic.Sink) (PositionAnnotation, bool) {
	c := newCursor(toks)
	id, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@position", "instance id", describeNext(c))
		return PositionAnnotation{}, false
	}
	x, ok := c.expect(token.Int)
	if !ok {
		fail(sink, line, "@position", "x coordinate", describeNext(c))
		return PositionAnnotation{}, false
	}
	y, ok := c.expect(token.Int)
	if !ok {
		fail(sink, line, "@position", "y coordinate", describeNext(c))
		return PositionAnnotation{}, false
	}
	xi, _ := parseInt(x.Text)
	yi, _ := parseInt(y.Text)
	return PositionAnnotation{ID: id.Text, X: xi, Y: yi}, true
}
