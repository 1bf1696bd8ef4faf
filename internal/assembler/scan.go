// Package assembler gathers doc-comment annotation blocks from host Go
// source, dispatches each line to the matching internal/grammar parser,
// and assembles the results plus host-signature type information into an
// internal/ast.Workflow (spec §4.3).
package assembler

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// RawLine is one annotation-bearing source line extracted from a doc
// comment, with its original source line number preserved for
// diagnostics.
type RawLine struct {
	Text string
	Line int
}

// Block is one function's doc-comment annotation block together with its
// host signature, ready for role classification and dispatch.
type Block struct {
	FuncName string
	Decl     *ast.FuncDecl
	Lines    []RawLine
}

// ScanFile parses a Go source file and extracts every function's
// annotation block. It returns the parsed file set (needed to resolve
// further positions, e.g. for annotation re-emission) alongside the
// blocks.
func ScanFile(path string) (*token.FileSet, []Block, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, nil, err
	}
	return fset, ScanAST(fset, file), nil
}

// ScanSource parses in-memory Go source (used by tests and by tooling
// that already holds file contents, e.g. an editor buffer).
func ScanSource(filename string, src []byte) (*token.FileSet, []Block, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, nil, err
	}
	return fset, ScanAST(fset, file), nil
}

// ScanAST extracts every FuncDecl's doc-comment annotation lines from an
// already-parsed file.
func ScanAST(fset *token.FileSet, file *ast.File) []Block {
	var blocks []Block
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}
		lines := docLines(fset, fn.Doc)
		var annotated []RawLine
		for _, l := range lines {
			if strings.HasPrefix(l.Text, "@") {
				annotated = append(annotated, l)
			}
		}
		if len(annotated) == 0 {
			continue
		}
		blocks = append(blocks, Block{FuncName: fn.Name.Name, Decl: fn, Lines: annotated})
	}
	return blocks
}

// docLines renders every line of a doc-comment group as plain text,
// stripping `//`, `/* */`, and leading `* ` markers, with each line
// tagged by its 1-based source line number.
func docLines(fset *token.FileSet, group *ast.CommentGroup) []RawLine {
	var out []RawLine
	for _, c := range group.List {
		base := fset.Position(c.Slash).Line
		text := c.Text
		switch {
		case strings.HasPrefix(text, "//"):
			content := strings.TrimSpace(strings.TrimPrefix(text, "//"))
			out = append(out, RawLine{Text: content, Line: base})
		case strings.HasPrefix(text, "/*"):
			content := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
			for i, raw := range strings.Split(content, "\n") {
				trimmed := strings.TrimSpace(raw)
				trimmed = strings.TrimPrefix(trimmed, "*")
				trimmed = strings.TrimSpace(trimmed)
				if trimmed == "" {
					continue
				}
				out = append(out, RawLine{Text: trimmed, Line: base + i})
			}
		}
	}
	return out
}
