package ast

import (
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// connectionLess orders connections canonically so two workflows that
// differ only in the order connections were appended still compare equal.
func connectionLess(a, b Connection) bool {
	if a.From.Node != b.From.Node {
		return a.From.Node < b.From.Node
	}
	if a.From.Port != b.From.Port {
		return a.From.Port < b.From.Port
	}
	if a.To.Node != b.To.Node {
		return a.To.Node < b.To.Node
	}
	return a.To.Port < b.To.Port
}

// Equivalent reports whether two workflows describe the same graph,
// ignoring connection order and InstanceOrder — the invariant the
// assembler round-trip test (spec §4.3 "annotate, re-parse, re-annotate
// produces a semantically identical AST") relies on. Sugar macros are
// compared too, since dropping a stale macro changes semantics.
func Equivalent(a, b *Workflow) bool {
	if a == nil || b == nil {
		return a == b
	}
	ca := append([]Connection(nil), a.Connections...)
	cb := append([]Connection(nil), b.Connections...)
	sort.Slice(ca, func(i, j int) bool { return connectionLess(ca[i], ca[j]) })
	sort.Slice(cb, func(i, j int) bool { return connectionLess(cb[i], cb[j]) })

	opts := []cmp.Option{
		cmpopts.IgnoreFields(Workflow{}, "InstanceOrder", "Connections"),
		cmpopts.EquateEmpty(),
	}
	if !cmp.Equal(a, b, opts...) {
		return false
	}
	return cmp.Equal(ca, cb, cmpopts.EquateEmpty())
}
