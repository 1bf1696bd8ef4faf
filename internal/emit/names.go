package emit

import (
	"strings"
	"unicode"
)

// goIdent turns an arbitrary instance/port/workflow name into a valid Go
// identifier fragment: non-alphanumeric runs collapse to a single
// underscore, and a leading digit gets an underscore prefix.
func goIdent(s string) string {
	var b strings.Builder
	prevUnderscore := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevUnderscore = false
			continue
		}
		if !prevUnderscore {
			b.WriteByte('_')
			prevUnderscore = true
		}
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if unicode.IsDigit(rune(out[0])) {
		return "_" + out
	}
	return out
}

// exportedIdent capitalizes the first rune so the generated workflow
// function name is exported, matching Go's public-function convention.
func exportedIdent(s string) string {
	id := goIdent(s)
	if id == "" {
		return id
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

// idxVar is the local variable holding an instance's execution index.
func idxVar(instanceID string) string { return "idx_" + goIdent(instanceID) }

// successVar is the local boolean flag recording whether a branching
// node's onSuccess route was taken (spec §4.7, "branching node").
func successVar(instanceID string) string { return goIdent(instanceID) + "_success" }

// outVar is the local variable holding one instance output port's value.
func outVar(instanceID, port string) string { return "v_" + goIdent(instanceID) + "_" + goIdent(port) }

// resultVar is the local variable holding a node call's raw result
// struct/record before its fields are distributed to outVar locals.
func resultVar(instanceID string) string { return "res_" + goIdent(instanceID) }

// errVar is the local error variable for one instance's call. Every
// instance gets its own name (rather than reusing "err") because nodes
// with no guard share the function's top-level block scope, where a
// second `:=` on a bare "err" would be a compile error.
func errVar(instanceID string) string { return "err_" + goIdent(instanceID) }

// ImportAlias derives the package qualifier a generated call site uses for
// an IMPORTED_WORKFLOW's import path (its last path segment, normalized to
// a valid Go identifier). Exported so internal/compile's file assembler
// binds the same alias it finds already written into the generated call.
func ImportAlias(importSource string) string {
	last := importSource
	for i := len(importSource) - 1; i >= 0; i-- {
		if importSource[i] == '/' {
			last = importSource[i+1:]
			break
		}
	}
	return goIdent(last)
}
