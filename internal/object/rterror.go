package object

import (
	"fmt"
	"strings"

	"parseflow/internal/diag"
	"parseflow/internal/token"
)

// RTError is the single runtime error kind: undefined names, type and arity
// mismatches, division by zero, bad indexes, failed scripts. It carries the
// context chain so the renderer can walk out a stack trace.
type RTError struct {
	Msg  string
	Span token.Span
	Ctx  *Context
}

func NewRTError(span token.Span, ctx *Context, format string, args ...interface{}) *RTError {
	return &RTError{
		Msg:  fmt.Sprintf(format, args...),
		Span: span,
		Ctx:  ctx,
	}
}

func (e *RTError) Error() string {
	return "Runtime Error: " + e.Msg
}

func (e *RTError) AsString() string {
	var out strings.Builder
	out.WriteString(e.traceback())
	out.WriteString("Runtime Error: " + e.Msg)
	out.WriteString("\n\n")
	out.WriteString(diag.StringWithArrows(e.Span.Start.Text, e.Span.Start, e.Span.End))
	return out.String()
}

// traceback walks from the innermost frame outward via ParentEntrySpan,
// printing outermost first.
func (e *RTError) traceback() string {
	result := ""
	pos := e.Span.Start
	ctx := e.Ctx

	for ctx != nil {
		result = fmt.Sprintf("  File %s, line %d, in %s\n", pos.File, pos.Ln+1, ctx.DisplayName) + result
		if ctx.ParentEntrySpan != nil {
			pos = ctx.ParentEntrySpan.Start
		}
		ctx = ctx.Parent
	}

	return "Traceback (most recent call last):\n" + result
}
