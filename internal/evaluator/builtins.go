package evaluator

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"parseflow/internal/object"
	"parseflow/internal/token"
)

// builtinFn executes a builtin inside its own execution context. Errors travel
// back as RTError on the result, never as panics.
type builtinFn func(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult

type builtin struct {
	arity int
	fn    builtinFn
}

// The builtin registry. Immutable after init; RegisterBuiltins mirrors the
// names into a root environment.
var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"PRINT":     {1, builtinPrint},
		"PRINT_RET": {1, builtinPrintRet},
		"INPUT":     {0, builtinInput},
		"INPUT_INT": {0, builtinInputInt},
		"CLEAR":     {0, builtinClear},
		"IS_NUM":    {1, builtinIsNum},
		"IS_STR":    {1, builtinIsStr},
		"IS_LIST":   {1, builtinIsList},
		"IS_FUN":    {1, builtinIsFun},
		"APPEND":    {2, builtinAppend},
		"POP":       {2, builtinPop},
		"EXTEND":    {2, builtinExtend},
		"LEN":       {1, builtinLen},
		"RUN":       {1, builtinRun},
	}
}

func RegisterBuiltins(env *object.Environment) {
	for name := range builtins {
		env.Set(name, &object.Builtin{Name: name})
	}
}

func (e *Evaluator) applyBuiltin(b *object.Builtin, args []object.Object, callSpan token.Span, ctx *object.Context) *RTResult {
	res := NewRTResult()

	impl, ok := builtins[b.Name]
	if !ok {
		return res.Failure(object.NewRTError(callSpan, ctx,
			"No execute method defined for '%s'", b.Name))
	}

	execCtx := object.NewContext(b.Name, ctx, &callSpan)
	execCtx.Env = object.NewEnclosedEnvironment(ctx.Env)

	if len(args) > impl.arity {
		return res.Failure(object.NewRTError(callSpan, ctx,
			"%d too many args passed into '%s'", len(args)-impl.arity, b.Name))
	}
	if len(args) < impl.arity {
		return res.Failure(object.NewRTError(callSpan, ctx,
			"%d too few args passed into '%s'", impl.arity-len(args), b.Name))
	}

	return impl.fn(e, execCtx, callSpan, args)
}

func builtinPrint(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	fmt.Fprintln(e.Out, object.Str(args[0]))
	return NewRTResult().Success(object.NULL)
}

func builtinPrintRet(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	s := &object.String{Value: object.Str(args[0])}
	s.Pos, s.Ctx = span, ctx
	return NewRTResult().Success(s)
}

func builtinInput(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	line, err := e.In.ReadString('\n')
	if err != nil && line == "" {
		return NewRTResult().Success(&object.String{Value: ""})
	}
	return NewRTResult().Success(&object.String{Value: strings.TrimRight(line, "\r\n")})
}

func builtinInputInt(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	for {
		line, err := e.In.ReadString('\n')
		text := strings.TrimSpace(line)
		if n, convErr := strconv.Atoi(text); convErr == nil {
			return NewRTResult().Success(&object.Number{Value: float64(n)})
		}
		if err != nil {
			return NewRTResult().Failure(object.NewRTError(span, ctx,
				"End of input while reading an integer"))
		}
		fmt.Fprintf(e.Out, "'%s' must be an integer. Try again!\n", text)
	}
}

func builtinClear(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	termenv.NewOutput(e.Out).ClearScreen()
	return NewRTResult().Success(object.NULL)
}

func builtinIsNum(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	_, ok := args[0].(*object.Number)
	return NewRTResult().Success(boolean(ok, span, ctx))
}

func builtinIsStr(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	_, ok := args[0].(*object.String)
	return NewRTResult().Success(boolean(ok, span, ctx))
}

func builtinIsList(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	_, ok := args[0].(*object.List)
	return NewRTResult().Success(boolean(ok, span, ctx))
}

func builtinIsFun(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	switch args[0].(type) {
	case *object.Function, *object.Builtin:
		return NewRTResult().Success(boolean(true, span, ctx))
	}
	return NewRTResult().Success(boolean(false, span, ctx))
}

func builtinAppend(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	res := NewRTResult()

	list, ok := args[0].(*object.List)
	if !ok {
		return res.Failure(object.NewRTError(span, ctx, "First argument must be list"))
	}

	list.Elements = append(list.Elements, args[1])
	return res.Success(object.NULL)
}

func builtinPop(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	res := NewRTResult()

	list, ok := args[0].(*object.List)
	if !ok {
		return res.Failure(object.NewRTError(span, ctx, "First argument must be list"))
	}
	num, ok := args[1].(*object.Number)
	if !ok {
		return res.Failure(object.NewRTError(span, ctx, "Second argument must be number"))
	}

	idx := int(math.Floor(num.Value))
	if idx < 0 || idx >= len(list.Elements) {
		return res.Failure(object.NewRTError(span, ctx,
			"Element at this index could not be removed from list because index is out of bounds"))
	}

	element := list.Elements[idx]
	list.Elements = append(list.Elements[:idx], list.Elements[idx+1:]...)
	return res.Success(element)
}

func builtinExtend(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	res := NewRTResult()

	listA, ok := args[0].(*object.List)
	if !ok {
		return res.Failure(object.NewRTError(span, ctx, "First argument must be list"))
	}
	listB, ok := args[1].(*object.List)
	if !ok {
		return res.Failure(object.NewRTError(span, ctx, "Second argument must be list"))
	}

	listA.Elements = append(listA.Elements, listB.Elements...)
	return res.Success(object.NULL)
}

func builtinLen(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	res := NewRTResult()

	switch arg := args[0].(type) {
	case *object.List:
		return res.Success(number(float64(len(arg.Elements)), span, ctx))
	case *object.String:
		return res.Success(number(float64(len([]rune(arg.Value))), span, ctx))
	}
	return res.Failure(object.NewRTError(span, ctx, "Argument must be a list or string"))
}

// builtinRun loads a script by path and executes it against the evaluator's
// root environment, so scripts see and extend the session's globals.
func builtinRun(e *Evaluator, ctx *object.Context, span token.Span, args []object.Object) *RTResult {
	res := NewRTResult()

	path, ok := args[0].(*object.String)
	if !ok {
		return res.Failure(object.NewRTError(span, ctx, "Argument must be string"))
	}

	data, err := os.ReadFile(path.Value)
	if err != nil {
		return res.Failure(object.NewRTError(span, ctx,
			"Failed to load script \"%s\"\n%s", path.Value, err))
	}

	_, runErr := e.RunInEnv(path.Value, string(data), e.Root)
	if runErr != nil {
		return res.Failure(object.NewRTError(span, ctx,
			"Failed to finish executing script \"%s\"\n%s", path.Value, runErr.AsString()))
	}

	return res.Success(object.NULL)
}
