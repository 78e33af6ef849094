package object

import (
	"bytes"
	"strconv"
	"strings"

	"parseflow/internal/ast"
	"parseflow/internal/token"
)

const (
	NUMBER_OBJ   = "NUMBER"
	STRING_OBJ   = "STRING"
	LIST_OBJ     = "LIST"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	NULL_OBJ     = "NULL"
)

var NULL = &Null{}

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

// Origin records where a value was produced and in which call frame, for
// stack traces on errors raised during operator application.
type Origin struct {
	Pos token.Span
	Ctx *Context
}

// Number holds every numeric value, booleans included (0 is false, anything
// else is true).
type Number struct {
	Origin
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

type String struct {
	Origin
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return strconv.Quote(s.Value) }

// List is mutable and shared: bindings, arguments and closures all see the
// same elements, so APPEND/POP/EXTEND are visible through every reference.
type List struct {
	Origin
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var out bytes.Buffer
	elems := []string{}
	for _, e := range l.Elements {
		elems = append(elems, e.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elems, ", "))
	out.WriteString("]")
	return out.String()
}

type Function struct {
	Origin
	Name       string // empty for an anonymous function
	Params     []string
	Body       ast.Node
	AutoReturn bool
	// DefCtx is the context the function literal was evaluated in; calls
	// chain their execution context off it (closure capture).
	DefCtx *Context
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	return "<function " + f.DisplayName() + ">"
}

func (f *Function) DisplayName() string {
	if f.Name == "" {
		return "<anonymous>"
	}
	return f.Name
}

type Builtin struct {
	Origin
	Name string
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<built-in function " + b.Name + ">" }

// Null is the implicit result of statements with no value.
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// IsTruthy implements the language's truth rules: non-zero numbers, non-empty
// strings, non-empty lists and any function are true.
func IsTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Number:
		return obj.Value != 0
	case *String:
		return obj.Value != ""
	case *List:
		return len(obj.Elements) > 0
	case *Function, *Builtin:
		return true
	default:
		return false
	}
}

// Str is the PRINT rendering: strings print raw, everything else as Inspect.
func Str(obj Object) string {
	if s, ok := obj.(*String); ok {
		return s.Value
	}
	return obj.Inspect()
}
