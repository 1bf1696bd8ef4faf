package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexErrorFormatsSnippet(t *testing.T) {
	t.Parallel()

	err := NewLexError(3, "@nod", "unrecognized tag head")

	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, 3, lexErr.Line)
	require.Contains(t, err.Error(), "@nod")
}

func TestSyntaxErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewSyntaxError("@connect", 12, "NODE.PORT -> NODE.PORT", "A.x ->")
	se := err.(*SyntaxError)
	se.Err = underlying

	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "@connect")
	require.Contains(t, err.Error(), "line 12")
}

func TestSyntaxErrorTruncatesLongGot(t *testing.T) {
	t.Parallel()

	got := strings.Repeat("x", 80)
	err := NewSyntaxError("@node", 1, "INSTANCE TYPE", got)
	require.Contains(t, err.Error(), "...")
}

func TestReferentialErrorPrefersHintOverSuggestions(t *testing.T) {
	t.Parallel()

	err := NewReferentialError("UNKNOWN_NODE_TYPE", "Fetcch", "node instance 'n1'")
	err.Suggestions = []string{"Fetch"}
	err.Hint = "function exists but has no nodeType annotation"

	require.Contains(t, err.Error(), "function exists but has no nodeType annotation")
	require.NotContains(t, err.Error(), "did you mean")
}

func TestReferentialErrorRendersSuggestions(t *testing.T) {
	t.Parallel()

	err := NewReferentialError("UNKNOWN_SOURCE_NODE", "fetcher", "connection 3")
	err.Suggestions = []string{"Fetcher", "Fetchers"}

	require.Contains(t, err.Error(), "did you mean Fetcher, Fetchers?")
}

func TestStructuralErrorListsCycleNames(t *testing.T) {
	t.Parallel()

	err := NewStructuralError("CYCLE", []string{"A", "B"}, "")
	require.Contains(t, err.Error(), "A, B")

	var structuralErr *StructuralError
	require.ErrorAs(t, err, &structuralErr)
}

func TestSemanticErrorDistinguishesWarningFromError(t *testing.T) {
	t.Parallel()

	warn := NewSemanticError("OBJECT_TYPE_MISMATCH", "User != Account", true)
	require.Contains(t, warn.Error(), "semantic warning")

	strict := NewSemanticError("OBJECT_TYPE_MISMATCH", "User != Account", false)
	require.Contains(t, strict.Error(), "semantic error")
}

func TestEmitErrorIncludesNodeWhenPresent(t *testing.T) {
	t.Parallel()

	err := NewEmitError("n3", "unreachable branch")
	require.Contains(t, err.Error(), "n3")

	bare := NewEmitError("", "recursion depth exceeded")
	require.NotContains(t, bare.Error(), ":  :")
}
