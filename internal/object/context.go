package object

import "parseflow/internal/token"

// Context is one call frame: a display name for stack traces, the frame that
// entered it and the call-site span, plus the frame's symbol table.
type Context struct {
	DisplayName     string
	Parent          *Context
	ParentEntrySpan *token.Span
	Env             *Environment
}

func NewContext(displayName string, parent *Context, entrySpan *token.Span) *Context {
	return &Context{
		DisplayName:     displayName,
		Parent:          parent,
		ParentEntrySpan: entrySpan,
	}
}
