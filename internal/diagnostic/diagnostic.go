// Package diagnostic collects and renders the warnings and errors produced
// by every layer of the compiler (lexer, grammar, assembler, analyzer,
// validator). It is the single sink every layer appends to rather than each
// one hand-rolling its own output formatting (spec §7).
package diagnostic

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// Warning diagnostics never block compilation.
	Warning Severity = iota
	// Error diagnostics may block compilation depending on the producing
	// layer's propagation policy (spec §7).
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one parser/analyzer/validator finding.
type Diagnostic struct {
	Severity    Severity
	Code        string
	Message     string
	Line        int
	Suggestions []string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s [%s] line %d: %s", d.Severity, d.Code, d.Line, d.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Code, d.Message)
}

// Sink accumulates diagnostics produced while parsing or analyzing a single
// workflow. The grammar parsers, the assembler and the validator take a
// *Sink and append to it rather than returning or printing errors
// directly — matching spec §4.2's "caller supplied warnings list"
// contract. The lexer reports failure as a false result and the analyzer
// as a returned error; neither writes to a Sink.
type Sink struct {
	items []Diagnostic
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a diagnostic.
func (s *Sink) Add(d Diagnostic) {
	if s == nil {
		return
	}
	s.items = append(s.items, d)
}

// Warnf appends a formatted warning.
func (s *Sink) Warnf(code string, line int, format string, args ...interface{}) {
	s.Add(Diagnostic{Severity: Warning, Code: code, Message: fmt.Sprintf(format, args...), Line: line})
}

// Errorf appends a formatted error.
func (s *Sink) Errorf(code string, line int, format string, args ...interface{}) {
	s.Add(Diagnostic{Severity: Error, Code: code, Message: fmt.Sprintf(format, args...), Line: line})
}

// All returns every diagnostic collected so far.
func (s *Sink) All() []Diagnostic {
	if s == nil {
		return nil
	}
	return append([]Diagnostic(nil), s.items...)
}

// Errors returns only Error-severity diagnostics.
func (s *Sink) Errors() []Diagnostic {
	return s.filter(Error)
}

// Warnings returns only Warning-severity diagnostics.
func (s *Sink) Warnings() []Diagnostic {
	return s.filter(Warning)
}

// HasErrors reports whether any Error-severity diagnostic was collected.
func (s *Sink) HasErrors() bool {
	if s == nil {
		return false
	}
	for _, d := range s.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

func (s *Sink) filter(sev Severity) []Diagnostic {
	if s == nil {
		return nil
	}
	var out []Diagnostic
	for _, d := range s.items {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	codeStyle  = lipgloss.NewStyle().Faint(true)
)

// Render formats a diagnostic for terminal output, colorizing by severity.
func Render(d Diagnostic, width int) string {
	label := warnStyle.Render("warning")
	if d.Severity == Error {
		label = errorStyle.Render("error")
	}
	body := fmt.Sprintf("%s: %s", label, d.Message)
	if d.Line > 0 {
		body = fmt.Sprintf("%s %s", codeStyle.Render(fmt.Sprintf("line %d", d.Line)), body)
	}
	body = fmt.Sprintf("%s %s", codeStyle.Render("["+d.Code+"]"), body)
	if width > 0 {
		return lipgloss.NewStyle().Width(width).Render(body)
	}
	return body
}
