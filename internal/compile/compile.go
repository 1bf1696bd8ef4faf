// Package compile is the single boundary host tooling is expected to call
// through (spec §6.4): parse a source file into its workflows and node
// types, validate a workflow, generate its Go procedure, and round-trip
// its annotations back into source — each exposed as its own function so
// a caller (cmd/flowc, an editor plugin, a build step) can use only the
// stage it needs.
package compile

import (
	"fmt"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/assembler"
	"github.com/flowgraph/flowc/internal/diagnostic"
	"github.com/flowgraph/flowc/internal/emit"
	"github.com/flowgraph/flowc/internal/genopts"
	"github.com/flowgraph/flowc/internal/reemit"
	"github.com/flowgraph/flowc/internal/sugar"
	"github.com/flowgraph/flowc/internal/validate"
)

// ParseResult is spec §6.4's parse() return shape: every assembled
// workflow and node type, plus the warnings and errors the assembler and
// its grammars raised along the way.
type ParseResult struct {
	Workflows []*flowast.Workflow
	NodeTypes map[string]*flowast.NodeType
	Warnings  []diagnostic.Diagnostic
	Errors    []diagnostic.Diagnostic
}

// Parse assembles one source file's annotations into workflows and node
// types (spec §6.4's parse()). Lexical and syntactic failures degrade to
// diagnostics rather than a returned error (spec §7); err is only ever a
// Go-syntax parse failure in the host file itself.
func Parse(path string) (ParseResult, error) {
	sink := diagnostic.NewSink()
	res, err := assembler.AssembleFile(path, sink)
	if err != nil {
		return ParseResult{}, fmt.Errorf("compile: parsing %s: %w", path, err)
	}
	return ParseResult{
		Workflows: res.Workflows,
		NodeTypes: res.NodeTypes,
		Warnings:  sink.Warnings(),
		Errors:    sink.Errors(),
	}, nil
}

// ParseSource is Parse's in-memory counterpart, for callers (tests, an
// editor buffer) that already hold the file contents.
func ParseSource(filename string, src []byte) (ParseResult, error) {
	sink := diagnostic.NewSink()
	res, err := assembler.AssembleSource(filename, src, sink)
	if err != nil {
		return ParseResult{}, fmt.Errorf("compile: parsing %s: %w", filename, err)
	}
	return ParseResult{
		Workflows: res.Workflows,
		NodeTypes: res.NodeTypes,
		Warnings:  sink.Warnings(),
		Errors:    sink.Errors(),
	}, nil
}

// ValidateResult is spec §6.4's validate() return shape.
type ValidateResult struct {
	Errors   []diagnostic.Diagnostic
	Warnings []diagnostic.Diagnostic
}

// Validate runs the referential and semantic checks over w (spec §6.4's
// validate(), delegating to internal/validate).
func Validate(w *flowast.Workflow, opts genopts.Options) ValidateResult {
	sink := validate.Validate(w, validate.Options{StrictTypes: opts.StrictTypes})
	return ValidateResult{Errors: sink.Errors(), Warnings: sink.Warnings()}
}

// Generate lowers w into its Go procedure body (spec §6.4's generate()).
// It always runs the graph analysis first since emit requires it; a
// structural cycle surfaces as the returned error, matching spec §7's
// "emitter raises and aborts" for structural diagnostics.
func Generate(w *flowast.Workflow, opts genopts.Options) (string, error) {
	an, err := flowanalyzer.Analyze(w)
	if err != nil {
		return "", err
	}
	return emit.Generate(w, an, emit.Options{
		Production:    opts.Production,
		ForceAsync:    opts.AsyncForced,
		ExecCtxImport: opts.ExternalRuntimePath,
	})
}

// CompileResult bundles every stage's output, per spec §6.4's
// "compile(source) = parse ⨁ validate ⨁ generate". Every workflow Parse
// returns is validated, even when Parse reported diagnostics for it; a
// workflow has no Code entry when its Validate.Errors is non-empty. Only
// an error from Parse itself (a host file that cannot be read or parsed)
// ends Compile early, with a zero CompileResult.
type CompileResult struct {
	Parse    ParseResult
	Validate map[string]ValidateResult // keyed by workflow name
	Code     map[string]string         // keyed by workflow name
}

// Compile runs parse, then validate and generate for every workflow the
// source declares (spec §6.4). A workflow with validation errors is
// skipped for generation but still reported.
func Compile(path string, opts genopts.Options) (CompileResult, error) {
	pr, err := Parse(path)
	if err != nil {
		return CompileResult{}, err
	}
	out := CompileResult{
		Parse:    pr,
		Validate: map[string]ValidateResult{},
		Code:     map[string]string{},
	}
	for _, w := range pr.Workflows {
		vr := Validate(w, opts)
		out.Validate[w.Name] = vr
		if len(vr.Errors) > 0 {
			continue
		}
		src, err := Generate(w, opts)
		if err != nil {
			return out, fmt.Errorf("compile: generating %s: %w", w.Name, err)
		}
		out.Code[w.Name] = src
	}
	return out, nil
}

// GenerateAnnotations renders w's canonical annotation lines (spec
// §6.4's generateAnnotations(), delegating to internal/reemit), dropping
// any sugar macro the current connection set no longer supports first
// (spec §4.5 "Filtering").
func GenerateAnnotations(w *flowast.Workflow) string {
	sugar.FilterStale(w)
	return reemit.Lines(reemit.Workflow(w))
}
