package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexNodeLine(t *testing.T) {
	t.Parallel()

	toks, ok := Lex(`@node n1 FetchUser [label:"Fetch user"] [order:2]`)
	require.True(t, ok)

	require.Equal(t, Tag, toks[0].Kind)
	require.Equal(t, "@node", toks[0].Text)
	require.Equal(t, Ident, toks[1].Kind)
	require.Equal(t, "n1", toks[1].Text)
	require.Equal(t, Ident, toks[2].Kind)
	require.Equal(t, "FetchUser", toks[2].Text)
	require.Equal(t, LBracket, toks[3].Kind)
	require.Equal(t, Keyword, toks[4].Kind)
	require.Equal(t, "label", toks[4].Text)
	require.Equal(t, Str, toks[5].Kind)
	require.Equal(t, "Fetch user", toks[5].Text)
	require.Equal(t, RBracket, toks[6].Kind)
}

func TestLexConnectLine(t *testing.T) {
	t.Parallel()

	toks, ok := Lex(`@connect n1.onSuccess -> n2.execute`)
	require.True(t, ok)
	require.Equal(t, []Kind{Tag, Ident, Dot, Ident, Arrow, Ident, Dot, Ident}, kinds(toks))
}

func TestLexScopedConnect(t *testing.T) {
	t.Parallel()

	toks, ok := Lex(`@connect each.start:iteration -> double.execute`)
	require.True(t, ok)
	require.Equal(t, Colon, toks[4].Kind)
	require.Equal(t, Ident, toks[5].Kind)
	require.Equal(t, "iteration", toks[5].Text)
}

func TestLexSignedInteger(t *testing.T) {
	t.Parallel()

	toks, ok := Lex(`@position n1 -120 45`)
	require.True(t, ok)
	require.Equal(t, Int, toks[2].Kind)
	require.Equal(t, "-120", toks[2].Text)
	require.Equal(t, Int, toks[3].Kind)
	require.Equal(t, "45", toks[3].Text)
}

func TestLexAttrValueTokenVsIdentifierEquals(t *testing.T) {
	t.Parallel()

	toks, ok := Lex(`@cancelOn event="user.cancel" timeout="30s"`)
	require.True(t, ok)
	require.Equal(t, AttrValue, toks[1].Kind)
	require.Equal(t, "event", toks[1].Text)
	require.Equal(t, Str, toks[2].Kind)
	require.Equal(t, AttrValue, toks[3].Kind)
	require.Equal(t, "timeout", toks[3].Text)

	// A bare port named "timeout" not glued to '=' lexes as a plain Ident.
	toks2, ok := Lex(`@input timeout`)
	require.True(t, ok)
	require.Equal(t, Ident, toks2[1].Kind)
	require.Equal(t, "timeout", toks2[1].Text)
}

func TestLexPortNameCollidingWithAttrValuePrefix(t *testing.T) {
	t.Parallel()

	// @node attribute list uses `expr:` keyword with `port=value` pairs where
	// the port name itself may equal an attr-value prefix like "timeout".
	toks, ok := Lex(`@node n1 Fetch [expr: timeout=30]`)
	require.True(t, ok)
	require.Equal(t, AttrValue, toks[5].Kind)
	require.Equal(t, "timeout", toks[5].Text)
}

func TestLexStringEscapes(t *testing.T) {
	t.Parallel()

	toks, ok := Lex(`@label "She said \"hi\" then closed the comment *\/ safely"`)
	require.True(t, ok)
	require.Equal(t, Str, toks[1].Kind)
	require.Equal(t, `She said "hi" then closed the comment */ safely`, toks[1].Text)
}

func TestLexPathMacro(t *testing.T) {
	t.Parallel()

	toks, ok := Lex(`@path A ok -> B -> C fail -> Exit`)
	require.True(t, ok)
	require.Equal(t, Route, toks[2].Kind)
	require.Equal(t, "ok", toks[2].Text)
}

func TestLexMapMacro(t *testing.T) {
	t.Parallel()

	toks, ok := Lex(`@map each double (item -> processed) over Start.items`)
	require.True(t, ok)
	require.Contains(t, kinds(toks), Over)
}

func TestLexUnknownCharacterFails(t *testing.T) {
	t.Parallel()

	_, ok := Lex(`@node n1 Fetch #weird`)
	require.False(t, ok)
}

func TestLexUnterminatedStringFails(t *testing.T) {
	t.Parallel()

	_, ok := Lex(`@label "unterminated`)
	require.False(t, ok)
}

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}
