package compile

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/printer"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	flowast "github.com/flowgraph/flowc/internal/ast"
	"github.com/flowgraph/flowc/internal/emit"
	"github.com/flowgraph/flowc/internal/genopts"
)

// AssembleFile wraps every generated workflow function body for one source
// file into a single, self-contained Go file: a package clause and the
// `context` plus execctx imports every generated function signature needs,
// followed by the function bodies themselves, in workflow name order for a
// deterministic diff (spec §6.4's generate() is expected to hand back
// something a host can write straight to disk).
//
// nodeTypes supplies the IMPORTED_WORKFLOW import paths a generated call
// site references (see internal/emit's importAlias convention); any path
// appearing there is added alongside execctx.
func AssembleFile(opts genopts.Options, codes map[string]string, nodeTypes map[string]*flowast.NodeType) (string, error) {
	names := make([]string, 0, len(codes))
	for name := range codes {
		names = append(names, name)
	}
	sort.Strings(names)

	var body strings.Builder
	fmt.Fprintf(&body, "package %s\n\n", opts.EffectivePackageName())
	body.WriteString("import (\n\t\"context\"\n)\n\n")
	for _, name := range names {
		body.WriteString(codes[name])
		body.WriteString("\n")
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", body.String(), parser.ParseComments)
	if err != nil {
		return "", fmt.Errorf("compile: assembling generated file: %w", err)
	}

	execCtxPath := opts.ExternalRuntimePath
	if execCtxPath == "" {
		execCtxPath = "github.com/flowgraph/flowc/internal/execctx"
	}
	// Named explicitly: emitted code always refers to the package as
	// `execctx`, regardless of what the path's own last segment happens to
	// be once a host relocates or vendors it (spec §5, externalRuntimePath).
	astutil.AddNamedImport(fset, file, "execctx", execCtxPath)

	for _, path := range importedWorkflowPaths(nodeTypes) {
		astutil.AddNamedImport(fset, file, importAlias(path), path)
	}

	var out bytes.Buffer
	if err := (&printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}).Fprint(&out, fset, file); err != nil {
		return "", fmt.Errorf("compile: formatting generated file: %w", err)
	}
	return out.String(), nil
}

// importedWorkflowPaths collects the distinct import paths an
// IMPORTED_WORKFLOW node type's generated call site references, sorted for
// deterministic import ordering.
func importedWorkflowPaths(nodeTypes map[string]*flowast.NodeType) []string {
	seen := map[string]bool{}
	var out []string
	for _, nt := range nodeTypes {
		if nt.Variant != flowast.VariantImportedWorkflow || nt.ImportSource == "" {
			continue
		}
		if !seen[nt.ImportSource] {
			seen[nt.ImportSource] = true
			out = append(out, nt.ImportSource)
		}
	}
	sort.Strings(out)
	return out
}

// importAlias returns an import path's package qualifier (last path
// segment, normalized to a valid Go identifier) by deferring to
// emit.ImportAlias, so the alias AssembleFile binds here always matches
// the qualifier internal/emit already wrote into the call site.
func importAlias(importSource string) string {
	return emit.ImportAlias(importSource)
}
