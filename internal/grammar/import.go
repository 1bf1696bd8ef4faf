package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// ImportAnnotation is the parsed form of
// `@fwImport TYPE as ALIAS from "SPECIFIER"` (spec §6.1), which binds an
// alias usable as a node type name to an externally-compiled workflow.
type ImportAnnotation struct {
	TypeName string
	Alias    string
	Specifier string
}

// ParseImport parses a `@fwImport` annotation line.
func ParseImport(toks []token.Token, line int, sink *diagnostic.Sink) (ImportAnnotation, bool) {
	c := newCursor(toks)
	typ, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@fwImport", "type name", describeNext(c))
		return ImportAnnotation{}, false
	}
	if !expectWord(c, "as") {
		fail(sink, line, "@fwImport", "'as'", describeNext(c))
		return ImportAnnotation{}, false
	}
	alias, ok := c.expect(token.Ident)
	if !ok {
		fail(sink, line, "@fwImport", "alias", describeNext(c))
		return ImportAnnotation{}, false
	}
	if !expectWord(c, "from") {
		fail(sink, line, "@fwImport", "'from'", describeNext(c))
		return ImportAnnotation{}, false
	}
	spec, ok := c.expect(token.Str)
	if !ok {
		fail(sink, line, "@fwImport", "import specifier string", describeNext(c))
		return ImportAnnotation{}, false
	}
	return ImportAnnotation{TypeName: typ.Text, Alias: alias.Text, Specifier: spec.Text}, true
}

// expectWord consumes the next token if it is an identifier with the exact
// given text, used for the bare contextual keywords "as"/"from" in
// @fwImport, which the lexer has no reason to special-case since nothing
// else in the grammar needs them.
func expectWord(c *cursor, word string) bool {
	tok, ok := c.peek()
	if !ok || tok.Kind != token.Ident || tok.Text != word {
		return false
	}
	c.pos++
	return true
}
