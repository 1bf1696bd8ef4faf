package grammar

import (
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/token"
)

// TriggerAnnotation is the parsed form of a workflow-option tag: either a
// bare `name=value ...` attribute run (`@trigger`, `@cancelOn`,
// `@throttle`) or a single bare literal (`@retries N`, `@timeout "…"`)
// (spec §6.1).
type TriggerAnnotation struct {
	Tag   string
	Attrs []Attribute
}

// ParseTrigger parses a workflow-option annotation line, dispatching on
// tag since `@retries`/`@timeout` use a bare-literal shape while
// `@trigger`/`@cancelOn`/`@throttle` use repeated attr=value pairs.
func ParseTrigger(tag string, toks []token.Token, line int, sink *diagnostic.Sink) (TriggerAnnotation, bool) {
	c := newCursor(toks)

	switch tag {
	case "@retries":
		n, ok := c.expect(token.Int)
		if !ok {
			fail(sink, line, tag, "retry count", describeNext(c))
			return TriggerAnnotation{}, false
		}
		val, ok := parseInt(n.Text)
		if !ok {
			fail(sink, line, tag, "integer", n.Text)
			return TriggerAnnotation{}, false
		}
		return TriggerAnnotation{Tag: tag, Attrs: []Attribute{{Key: "retries", Kind: token.Int, Int: val}}}, true

	case "@timeout":
		s, ok := c.expect(token.Str)
		if !ok {
			fail(sink, line, tag, "timeout duration string", describeNext(c))
			return TriggerAnnotation{}, false
		}
		return TriggerAnnotation{Tag: tag, Attrs: []Attribute{{Key: "timeout", Kind: token.Str, Str: s.Text}}}, true
	}

	ta := TriggerAnnotation{Tag: tag}
	for !c.done() {
		tok, ok := c.peek()
		if !ok || tok.Kind != token.AttrValue {
			fail(sink, line, tag, "attribute", describeNext(c))
			return TriggerAnnotation{}, false
		}
		// The lexer already consumed the '=' while recognizing the
		// AttrValue token (internal/token's lexIdentLike).
		c.pos++
		attr, ok := parseAttrValue(c, tok.Text)
		if !ok {
			fail(sink, line, tag, "attribute value", describeNext(c))
			return TriggerAnnotation{}, false
		}
		ta.Attrs = append(ta.Attrs, attr)
	}
	return ta, true
}
