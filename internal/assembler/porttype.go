package assembler

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"

	flowast "github.com/flowgraph/flowc/internal/ast"
)

// hostTypeString renders a type expression exactly as written in the host
// source, used as PortDef.HostType (spec §3's "optional host-language
// type string"). flowc never type-checks the host program (spec §1's
// Non-goals exclude "host-language type inference"), so a syntactic
// rendering via go/printer is all port-type inheritance needs — there is
// no call here for golang.org/x/tools' cross-package type-checking load.
func hostTypeString(fset *token.FileSet, expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}
	return buf.String()
}

// dataTypeFor maps a host type expression to the workflow's semantic
// DataType (spec §3, §4.3 step 3: "where the host function's parameter or
// return-field type is provided, apply it; otherwise default to ANY").
func dataTypeFor(expr ast.Expr) flowast.DataType {
	switch t := expr.(type) {
	case nil:
		return flowast.TAny
	case *ast.Ident:
		switch t.Name {
		case "string":
			return flowast.TString
		case "bool":
			return flowast.TBoolean
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64",
			"float32", "float64":
			return flowast.TNumber
		case "any":
			return flowast.TAny
		default:
			return flowast.TObject
		}
	case *ast.ArrayType:
		return flowast.TArray
	case *ast.MapType:
		return flowast.TObject
	case *ast.StructType:
		return flowast.TObject
	case *ast.StarExpr:
		return dataTypeFor(t.X)
	case *ast.FuncType:
		return flowast.TFunction
	case *ast.InterfaceType:
		return flowast.TAny
	case *ast.SelectorExpr:
		return flowast.TObject
	default:
		return flowast.TAny
	}
}

// funcSignature is the subset of a host function's signature the
// assembler needs to inherit port types from (spec §4.3 step 3) and to
// determine whether it is itself async (step 6).
type funcSignature struct {
	Params  []namedField
	Results []namedField
	Async   bool // true when any result's host type is error
}

type namedField struct {
	Name     string
	DataType flowast.DataType
	HostType string
}

// extractSignature inspects a FuncDecl's parameter and result lists.
func extractSignature(fset *token.FileSet, fn *ast.FuncDecl) funcSignature {
	var sig funcSignature
	if fn.Type.Params != nil {
		sig.Params = fieldsOf(fset, fn.Type.Params.List)
	}
	if fn.Type.Results != nil {
		sig.Results = fieldsOf(fset, fn.Type.Results.List)
		for _, r := range sig.Results {
			if r.HostType == "error" {
				sig.Async = true // a trailing error result is this codebase's signal for a fallible (host-async-eligible) node function
			}
		}
	}
	return sig
}

func fieldsOf(fset *token.FileSet, fields []*ast.Field) []namedField {
	var out []namedField
	for _, f := range fields {
		hostType := hostTypeString(fset, f.Type)
		dt := dataTypeFor(f.Type)
		if len(f.Names) == 0 {
			out = append(out, namedField{DataType: dt, HostType: hostType})
			continue
		}
		for _, n := range f.Names {
			out = append(out, namedField{Name: n.Name, DataType: dt, HostType: hostType})
		}
	}
	return out
}
