package assembler

import (
	goast "go/ast"
	gotoken "go/token"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/diagnostic"
)

// Result is everything one source file yields: every node type and
// workflow it defines, plus the diagnostics collected along the way.
type Result struct {
	NodeTypes map[string]*flowast.NodeType
	Workflows []*flowast.Workflow
}

// AssembleFile scans, classifies, and assembles a single Go source file.
// Node-type blocks are built first so workflow blocks in the same file can
// reference node types regardless of declaration order.
func AssembleFile(path string, sink *diagnostic.Sink) (*Result, error) {
	fset, blocks, err := ScanFile(path)
	if err != nil {
		return nil, err
	}
	return assemble(fset, blocks, sink), nil
}

// AssembleSource is AssembleFile's in-memory counterpart.
func AssembleSource(filename string, src []byte, sink *diagnostic.Sink) (*Result, error) {
	fset, blocks, err := ScanSource(filename, src)
	if err != nil {
		return nil, err
	}
	return assemble(fset, blocks, sink), nil
}

func assemble(fset *gotoken.FileSet, blocks []Block, sink *diagnostic.Sink) *Result {
	res := &Result{NodeTypes: map[string]*flowast.NodeType{}}

	var workflowBlocks []Block
	var workflowResults []BlockResult
	for _, b := range blocks {
		br := dispatch(b.Lines, sink)
		switch classify(b.Lines) {
		case RoleNodeType:
			res.NodeTypes[b.FuncName] = buildNodeType(fset, b, br)
		case RoleWorkflow:
			workflowBlocks = append(workflowBlocks, b)
			workflowResults = append(workflowResults, br)
		}
	}

	for i, b := range workflowBlocks {
		w := buildWorkflow(fset, b, workflowResults[i], res.NodeTypes, sink)
		res.Workflows = append(res.Workflows, w)
	}
	return res
}

// FuncByName looks up the *goast.FuncDecl backing a scanned block, used by
// internal/reemit to splice a regenerated annotation block back into its
// original doc comment location.
func FuncByName(blocks []Block, name string) (*goast.FuncDecl, bool) {
	for _, b := range blocks {
		if b.FuncName == name {
			return b.Decl, true
		}
	}
	return nil, false
}
