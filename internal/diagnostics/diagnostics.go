// Package diagnostics models compile-time and runtime errors as
// values and renders them as annotated source reports (spec.md §7,
// §6). It deliberately keeps the same split the teacher's
// internal/errors package keeps: a language-facing ErrorType plus
// source location versus a wrapped Go error carrying an internal
// stack trace for implementation bugs.
package diagnostics

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"lumen/internal/bytecode"
)

// ErrorType names the spec.md §7 taxonomy entry a Diagnostic belongs
// to.
type ErrorType string

const (
	CompileError ErrorType = "CompileError"
	RuntimeError ErrorType = "RuntimeError"
)

// Diagnostic is one reported error with enough context to render a
// source excerpt (spec.md §6: "Diagnostic errors write annotated
// source reports to stderr").
type Diagnostic struct {
	Type    ErrorType
	Message string
	Span    bytecode.Span
}

func (d *Diagnostic) Error() string { return d.Message }

// Report renders d against the original source text: the error type
// and message, followed by the faulting snippet. Column-accurate
// multi-line layout is explicitly out of scope (spec.md §1); this is
// the "existence required, column layout not" disassembler-adjacent
// bar applied to diagnostics too.
func (d *Diagnostic) Report(source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", d.Type, d.Message)
	snippet := snippetAt(source, d.Span)
	if snippet != "" {
		fmt.Fprintf(&b, "  --> %s\n", snippet)
	}
	return b.String()
}

func snippetAt(source string, span bytecode.Span) string {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end > len(source) {
		end = len(source)
	}
	if start >= end || start > len(source) {
		return ""
	}
	return source[start:end]
}

// Accumulator collects compile-time diagnostics. spec.md §7.1: compile
// errors are reported with source span, compilation does not abort on
// the first one, and the overall compile fails if any were reported.
type Accumulator struct {
	diags []*Diagnostic
}

// Add records a compile error at span. The recorded Diagnostic holds
// only the type, message and span; it carries no Go stack trace.
func (a *Accumulator) Add(span bytecode.Span, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	_ = pkgerrors.New(msg) // built and discarded; the Diagnostic keeps no stack trace
	a.diags = append(a.diags, &Diagnostic{Type: CompileError, Message: msg, Span: span})
}

// HasErrors reports whether any diagnostic was recorded.
func (a *Accumulator) HasErrors() bool { return len(a.diags) > 0 }

// Diagnostics returns all recorded diagnostics in report order.
func (a *Accumulator) Diagnostics() []*Diagnostic { return a.diags }

// Fatal wraps an implementation-bug assertion failure (spec.md §7.3:
// reaching OpInvalid, a span/instruction length desync, operand
// underflow) with a Go stack trace, distinct from ordinary runtime
// errors surfaced to the script author.
func Fatal(format string, args ...interface{}) error {
	return pkgerrors.Errorf(format, args...)
}
