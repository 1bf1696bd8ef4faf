// Package grammar holds one hand-written recursive-descent parser per
// annotation kind, all sharing the lexer in internal/token (spec §4.2).
// Each parser has a companion XGrammar() function (grammar.go) returning a
// Rule that describes its shape, all listed in Grammars, so a single
// renderer can emit an EBNF/diagram view of every
// annotation kind without hand-maintained documentation drifting from the
// parsers (spec §4.2, "grammar reflection for diagram/EBNF generation").
package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// Attribute is one entry of a `[key:value, ...]` bracket list or a bare
// `key=value` pair outside brackets. Exactly one of the Str/Int/Ident/Flag
// value fields is populated, selected by Kind.
type Attribute struct {
	Key  string
	Kind token.Kind // Str, Int, Ident, or EOF for a bare flag with no value
	Str  string
	Int  int
	Ident string
}

// cursor walks a token slice, giving each annotation parser a small shared
// primitive set instead of re-deriving index bookkeeping per file.
type cursor struct {
	toks []token.Token
	pos  int
}

func newCursor(toks []token.Token) *cursor {
	return &cursor{toks: toks}
}

func (c *cursor) done() bool {
	return c.pos >= len(c.toks)
}

func (c *cursor) peek() (token.Token, bool) {
	if c.done() {
		return token.Token{}, false
	}
	return c.toks[c.pos], true
}

func (c *cursor) next() (token.Token, bool) {
	tok, ok := c.peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// expect consumes and returns the next token if it has kind k.
func (c *cursor) expect(k token.Kind) (token.Token, bool) {
	tok, ok := c.peek()
	if !ok || tok.Kind != k {
		return token.Token{}, false
	}
	c.pos++
	return tok, true
}

// parseBracketAttrs parses a `[ attr (, attr)* ]` list starting at the
// cursor's current position (which must be at LBracket). It returns the
// parsed attributes and whether the list was well-formed.
func parseBracketAttrs(c *cursor) ([]Attribute, bool) {
	if _, ok := c.expect(token.LBracket); !ok {
		return nil, false
	}
	var attrs []Attribute
	for {
		if tok, ok := c.peek(); ok && tok.Kind == token.RBracket {
			c.pos++
			return attrs, true
		}
		attr, ok := parseOneAttr(c)
		if !ok {
			return nil, false
		}
		attrs = append(attrs, attr)
		if tok, ok := c.peek(); ok && tok.Kind == token.Comma {
			c.pos++
			continue
		}
	}
}

// parseOneAttr parses either `keyword:value`, `name=value`, or a bare
// identifier flag.
func parseOneAttr(c *cursor) (Attribute, bool) {
	tok, ok := c.peek()
	if !ok {
		return Attribute{}, false
	}

	switch tok.Kind {
	case token.Keyword, token.AttrValue:
		// The lexer already consumed the ':' or '=' delimiter while
		// recognizing the Keyword/AttrValue token itself (internal/token's
		// lexIdentLike), so the value token follows immediately.
		c.pos++
		return parseAttrValue(c, tok.Text)
	case token.Ident, token.Placement:
		c.pos++
		return Attribute{Key: tok.Text}, true
	default:
		return Attribute{}, false
	}
}

func parseAttrValue(c *cursor, key string) (Attribute, bool) {
	tok, ok := c.next()
	if !ok {
		return Attribute{}, false
	}
	switch tok.Kind {
	case token.Str:
		return Attribute{Key: key, Kind: token.Str, Str: tok.Text}, true
	case token.Int:
		n, ok := parseInt(tok.Text)
		if !ok {
			return Attribute{}, false
		}
		return Attribute{Key: key, Kind: token.Int, Int: n}, true
	case token.Ident, token.Placement, token.Route:
		return Attribute{Key: key, Kind: token.Ident, Ident: tok.Text}, true
	default:
		return Attribute{}, false
	}
}

func parseInt(s string) (int, bool) {
	neg := false
	i := 0
	if len(s) > 0 && s[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(s) {
		return 0, false
	}
	n := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// find returns the first attribute with the given key, if present.
func find(attrs []Attribute, key string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a, true
		}
	}
	return Attribute{}, false
}

func fail(sink *diagnostic.Sink, line int, tag, expected, got string) {
	sink.Add(diagnostic.Diagnostic{
		Severity: diagnostic.Error,
		Code:     "SYNTAX",
		Message:  tag + ": expected " + expected + ", got " + got,
		Line:     line,
	})
}
