package compile

import (
	"bytes"
	"fmt"
	"strings"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/assembler"
	"github.com/flowgraph/flowc/internal/reemit"
	"github.com/flowgraph/flowc/internal/sugar"
	"github.com/flowgraph/flowc/pkg/diff"
)

// InPlaceResult is spec §6.4's generateInPlace() return shape: the full
// file with the regenerated region spliced in, and whether that splice
// actually changed anything.
type InPlaceResult struct {
	Code       string
	HasChanges bool
	// Diff is the unified diff between src and Code, for callers (the
	// `annotations --in-place --diff` CLI flag) that want to preview a
	// splice before writing it. Empty when HasChanges is false.
	Diff string
}

// GenerateInPlace regenerates w's annotation block from its current AST
// and splices the result back into source at the doc comment of the Go
// function the workflow was assembled from, leaving everything else in
// the file untouched (spec §6.4's "retains non-generated content").
//
// Non-annotation doc-comment lines — a human-written summary above the
// `@` lines, say — are preserved verbatim; only the lines the assembler
// recognized as annotations are replaced.
func GenerateInPlace(filename string, src []byte, w *flowast.Workflow) (InPlaceResult, error) {
	fset, blocks, err := assembler.ScanSource(filename, src)
	if err != nil {
		return InPlaceResult{}, fmt.Errorf("compile: scanning %s: %w", filename, err)
	}
	decl, ok := assembler.FuncByName(blocks, w.Name)
	if !ok || decl.Doc == nil {
		return InPlaceResult{}, fmt.Errorf("compile: no annotated function %q in %s", w.Name, filename)
	}

	startOff := fset.Position(decl.Doc.Pos()).Offset
	endOff := fset.Position(decl.Doc.End()).Offset

	indent := leadingWhitespace(src, startOff)
	preserved := preservedDocLines(decl.Doc.Text())
	sugar.FilterStale(w)
	lines := append(append([]string(nil), preserved...), reemit.Workflow(w)...)

	var body strings.Builder
	for i, l := range lines {
		if i > 0 {
			body.WriteString(indent)
		}
		body.WriteString("// ")
		body.WriteString(l)
		body.WriteString("\n")
	}
	replacement := body.String()

	var out bytes.Buffer
	out.Write(src[:startOff])
	out.WriteString(replacement)
	out.Write(src[endOff:])

	unified, changed := diff.Annotations(src, out.Bytes(), filename)
	return InPlaceResult{Code: out.String(), HasChanges: changed, Diff: unified}, nil
}

// preservedDocLines keeps any doc-comment line that the assembler would
// not have classified as an annotation (it doesn't start with "@"),
// giving an author's hand-written summary line a stable home above the
// regenerated block.
func preservedDocLines(docText string) []string {
	var out []string
	for _, l := range strings.Split(strings.TrimRight(docText, "\n"), "\n") {
		if l == "" || strings.HasPrefix(l, "@") {
			continue
		}
		out = append(out, l)
	}
	return out
}

func leadingWhitespace(src []byte, offset int) string {
	lineStart := offset
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	i := lineStart
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return string(src[lineStart:i])
}
