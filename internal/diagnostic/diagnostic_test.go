package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinkSeparatesErrorsAndWarnings(t *testing.T) {
	t.Parallel()

	sink := NewSink()
	sink.Warnf("UNANNOTATED", 4, "line ignored: %s", "bad tag")
	sink.Errorf("CYCLE", 0, "cycle detected: %s", "A, B")

	require.Len(t, sink.All(), 2)
	require.Len(t, sink.Warnings(), 1)
	require.Len(t, sink.Errors(), 1)
	require.True(t, sink.HasErrors())
	require.Equal(t, "CYCLE", sink.Errors()[0].Code)
}

func TestSinkWithNoErrors(t *testing.T) {
	t.Parallel()

	sink := NewSink()
	sink.Warnf("LEXICAL", 1, "skipped")
	require.False(t, sink.HasErrors())
}

func TestNilSinkIsSafe(t *testing.T) {
	t.Parallel()

	var sink *Sink
	sink.Add(Diagnostic{Code: "X"})
	require.Nil(t, sink.All())
	require.False(t, sink.HasErrors())
}

func TestDiagnosticStringIncludesLineWhenPresent(t *testing.T) {
	t.Parallel()

	d := Diagnostic{Severity: Error, Code: "CYCLE", Message: "A, B", Line: 12}
	require.Contains(t, d.String(), "line 12")

	d2 := Diagnostic{Severity: Warning, Code: "LEXICAL", Message: "skip"}
	require.NotContains(t, d2.String(), "line")
}
