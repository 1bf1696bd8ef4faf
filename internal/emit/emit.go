// Package emit lowers an analyzed workflow graph into the Go source of its
// procedure body (spec §4.7). It is the compiler's back end: everything
// upstream (lexer, grammar, assembler, analyzer, validate) produces a
// workflow and its analysis; emit turns that into a callable Go function
// written against the execctx.Context runtime boundary.
package emit

import (
	"fmt"
	"strings"

	flowanalyzer "github.com/flowgraph/flowc/internal/analyzer"
	flowast "github.com/flowgraph/flowc/internal/ast"
)

// Options configures one Generate call (spec §5, §6.4's generation
// options). ModuleFormat and bundling concerns are handled by the caller
// (internal/genopts, internal/compile) assembling the surrounding file;
// emit itself only ever produces one Go function body.
type Options struct {
	// Production suppresses verbose per-node RUNNING events, matching
	// spec §5's "production mode trims observability chatter".
	Production bool
	// ForceAsync mirrors genopts.Options.AsyncForced. Generate does not
	// read it: the emitted function is the same whether it is set or not.
	ForceAsync bool
	// ExecCtxImport carries the execctx import path (spec §5,
	// externalRuntimePath). Generate writes no import block and does not
	// use it; the path takes effect where internal/compile's AssembleFile
	// adds the execctx import from genopts.Options.ExternalRuntimePath.
	ExecCtxImport string
}

func (o Options) execCtxImport() string {
	if o.ExecCtxImport != "" {
		return o.ExecCtxImport
	}
	return "github.com/flowgraph/flowc/internal/execctx"
}

// Generate lowers w into the source text of its workflow function,
// following an's topological order and classifications (spec §4.7).
func Generate(w *flowast.Workflow, an *flowanalyzer.Analysis, opts Options) (string, error) {
	g := &generator{
		w:               w,
		an:              an,
		opts:            opts,
		alwaysRunsCache: map[string]bool{},
		declared:        map[string]bool{},
		scopeItemVar:    map[string]string{},
	}
	return g.run()
}

type generator struct {
	w    *flowast.Workflow
	an   *flowanalyzer.Analysis
	opts Options
	b    strings.Builder

	alwaysRunsCache map[string]bool
	declared        map[string]bool // instances whose locals have been emitted

	// scopeItemVar records, for a per-port scoped child currently being
	// lowered inline by lowerMapIterator, the Go identifier that stands in
	// for its scope-sourced input (the loop's element variable). Scoped
	// connections carry no lexical predecessor local of their own, so
	// inputExpr consults this override instead (spec §4.4, "Per-port
	// scope").
	scopeItemVar map[string]string

	// inPullClosure is true while lowering the body of a pull executor
	// closure (spec §4.7, "Pull node"), whose signature is `func(context.
	// Context) error` rather than the workflow function's own `(map[string]
	// any, error)` — every early return emitted by the shared lowering
	// helpers must match whichever signature currently encloses it.
	inPullClosure bool
}

// retErr renders an early-return statement carrying an error value,
// honoring the enclosing function's return signature (see inPullClosure).
func (g *generator) retErr(expr string) string {
	if g.inPullClosure {
		return "return " + expr
	}
	return "return nil, " + expr
}

func (g *generator) run() (string, error) {
	g.writeDoc()
	g.writeSignature()
	g.writeGuardPreamble()
	g.writeStartBindings()
	if err := g.writeBody(); err != nil {
		return "", err
	}
	if err := g.writeExit(); err != nil {
		return "", err
	}
	g.b.WriteString("}\n")
	return g.b.String(), nil
}

func (g *generator) writeDoc() {
	fmt.Fprintf(&g.b, "// %s runs the %q workflow (generated by flowc; do not edit by hand).\n",
		workflowFuncName(g.w.Name), g.w.Name)
}

func (g *generator) writeSignature() {
	fmt.Fprintf(&g.b, "func %s(ctx context.Context, ec execctx.Context, execute bool, params map[string]any) (map[string]any, error) {\n",
		workflowFuncName(g.w.Name))
}

// workflowFuncName is the exported name a workflow is generated under. The
// "Workflow" prefix keeps it from ever colliding with a host node
// function's own name in the same package — a WORKFLOW/IMPORTED_WORKFLOW
// node type's FunctionName is expected to already spell this convention
// out (spec §3, §5 "Nested workflows").
func workflowFuncName(workflowName string) string {
	return "Workflow" + exportedIdent(workflowName)
}

// writeGuardPreamble emits the recursion-depth check that must run before
// any node (spec §4.7 step 1, §7 "recursion depth exceeded (raised before
// any node runs)").
func (g *generator) writeGuardPreamble() {
	g.b.WriteString("\trd, _ := params[\"__rd__\"].(int)\n")
	fmt.Fprintf(&g.b, "\tif rd >= execctx.RecursionLimit {\n\t\treturn nil, &execctx.ErrRecursionLimit{Workflow: %q}\n\t}\n", g.w.Name)
}

// writeStartBindings sets the context variable for every start port from
// the host parameter (execute from the execute argument, others from the
// params object), per spec §4.7 step 3.
func (g *generator) writeStartBindings() {
	fmt.Fprintf(&g.b, "\t_ = ec.AddExecution(%q)\n", flowast.Start)
	for _, p := range g.w.Inputs {
		value := "params[" + quote(p.Name) + "]"
		if p.Name == flowast.PortExecute {
			value = "execute"
		}
		fmt.Fprintf(&g.b, "\tif err := ec.SetVariable(ctx, execctx.VariableRef{ID: %q, PortName: %q, ExecutionIndex: 0}, %s); err != nil {\n\t\treturn nil, err\n\t}\n",
			flowast.Start, p.Name, value)
	}
	g.alwaysRunsCache[flowast.Start] = true
}

// writeBody lowers every instance in topological order, skipping the
// pseudo Start/Exit nodes and per-port scoped children (already excluded
// from an.Order by the CFG builder; they are emitted from within their
// owning instance's scope closure instead, see scope.go).
func (g *generator) writeBody() error {
	for _, id := range g.an.Order {
		if id == flowast.Start || id == flowast.Exit {
			continue
		}
		if err := g.lowerInstance(id); err != nil {
			return err
		}
	}
	return nil
}

func quote(s string) string { return fmt.Sprintf("%q", s) }
