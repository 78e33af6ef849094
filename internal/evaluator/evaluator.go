package evaluator

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"parseflow/internal/ast"
	"parseflow/internal/object"
	"parseflow/internal/token"
)

// Evaluator walks the AST. One evaluator owns one root environment, so a REPL
// session (and the RUN builtin) sees state accumulate across runs.
type Evaluator struct {
	Root *object.Environment
	In   *bufio.Reader
	Out  io.Writer
	// CodeSink, when set, receives the linearized AST of every run.
	CodeSink io.Writer
}

func New() *Evaluator {
	return &Evaluator{
		Root: NewRootEnv(),
		In:   bufio.NewReader(os.Stdin),
		Out:  os.Stdout,
	}
}

// NewRootEnv builds a fresh global symbol table with the builtin registry
// pre-populated.
func NewRootEnv() *object.Environment {
	env := object.NewEnvironment()
	RegisterBuiltins(env)
	return env
}

func (e *Evaluator) Eval(node ast.Node, ctx *object.Context) *RTResult {
	switch node := node.(type) {

	case *ast.NumberLiteral:
		n := &object.Number{Value: node.Value}
		n.Pos, n.Ctx = node.Span(), ctx
		return NewRTResult().Success(n)

	case *ast.StringLiteral:
		s := &object.String{Value: node.Value}
		s.Pos, s.Ctx = node.Span(), ctx
		return NewRTResult().Success(s)

	case *ast.ListLiteral:
		return e.evalList(node, ctx)

	case *ast.Identifier:
		return e.evalIdentifier(node, ctx)

	case *ast.VarExpression:
		return e.evalVarExpression(node, ctx)

	case *ast.InfixExpression:
		return e.evalInfixExpression(node, ctx)

	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, ctx)

	case *ast.IfExpression:
		return e.evalIfExpression(node, ctx)

	case *ast.ForExpression:
		return e.evalForExpression(node, ctx)

	case *ast.WhileExpression:
		return e.evalWhileExpression(node, ctx)

	case *ast.FunctionLiteral:
		return e.evalFunctionLiteral(node, ctx)

	case *ast.CallExpression:
		return e.evalCallExpression(node, ctx)

	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, ctx)

	case *ast.ContinueStatement:
		return NewRTResult().SuccessContinue()

	case *ast.BreakStatement:
		return NewRTResult().SuccessBreak()
	}

	return NewRTResult().Failure(object.NewRTError(node.Span(), ctx,
		"No evaluation defined for %T", node))
}

// evalList covers list literals and statement sequences alike: elements are
// evaluated in order and any signal or error propagates immediately.
func (e *Evaluator) evalList(node *ast.ListLiteral, ctx *object.Context) *RTResult {
	res := NewRTResult()
	var elements []object.Object

	for _, elem := range node.Elements {
		value := res.Register(e.Eval(elem, ctx))
		if res.ShouldReturn() {
			return res
		}
		elements = append(elements, value)
	}

	list := &object.List{Elements: elements}
	list.Pos, list.Ctx = node.Span(), ctx
	return res.Success(list)
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, ctx *object.Context) *RTResult {
	res := NewRTResult()

	value, ok := ctx.Env.Get(node.Value)
	if !ok {
		return res.Failure(object.NewRTError(node.Span(), ctx,
			"'%s' is not defined", node.Value))
	}
	return res.Success(value)
}

func (e *Evaluator) evalVarExpression(node *ast.VarExpression, ctx *object.Context) *RTResult {
	res := NewRTResult()

	value := res.Register(e.Eval(node.Value, ctx))
	if res.ShouldReturn() {
		return res
	}

	ctx.Env.Set(node.Name.Literal, value)
	return res.Success(value)
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, ctx *object.Context) *RTResult {
	res := NewRTResult()

	left := res.Register(e.Eval(node.Left, ctx))
	if res.ShouldReturn() {
		return res
	}
	right := res.Register(e.Eval(node.Right, ctx))
	if res.ShouldReturn() {
		return res
	}

	value, err := applyInfix(node.Op, left, right, node.Span(), ctx)
	if err != nil {
		return res.Failure(err)
	}
	return res.Success(value)
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, ctx *object.Context) *RTResult {
	res := NewRTResult()

	right := res.Register(e.Eval(node.Right, ctx))
	if res.ShouldReturn() {
		return res
	}

	value, err := applyPrefix(node.Op, right, node.Span(), ctx)
	if err != nil {
		return res.Failure(err)
	}
	return res.Success(value)
}

func (e *Evaluator) evalIfExpression(node *ast.IfExpression, ctx *object.Context) *RTResult {
	res := NewRTResult()

	for _, c := range node.Cases {
		cond := res.Register(e.Eval(c.Cond, ctx))
		if res.ShouldReturn() {
			return res
		}

		if object.IsTruthy(cond) {
			value := res.Register(e.Eval(c.Body, ctx))
			if res.ShouldReturn() {
				return res
			}
			if c.IsBlock {
				return res.Success(object.NULL)
			}
			return res.Success(value)
		}
	}

	if node.Else != nil {
		value := res.Register(e.Eval(node.Else.Body, ctx))
		if res.ShouldReturn() {
			return res
		}
		if node.Else.IsBlock {
			return res.Success(object.NULL)
		}
		return res.Success(value)
	}

	return res.Success(object.NULL)
}

func (e *Evaluator) evalForExpression(node *ast.ForExpression, ctx *object.Context) *RTResult {
	res := NewRTResult()
	var elements []object.Object

	start, err := e.evalNumberOperand(res, node.Start, ctx, "'FOR' start value")
	if err != nil || res.ShouldReturn() {
		return res
	}
	end, err := e.evalNumberOperand(res, node.End, ctx, "'FOR' end value")
	if err != nil || res.ShouldReturn() {
		return res
	}

	step := 1.0
	if node.Step != nil {
		stepValue, err := e.evalNumberOperand(res, node.Step, ctx, "'FOR' step value")
		if err != nil || res.ShouldReturn() {
			return res
		}
		step = stepValue
	}

	i := start
	for (step >= 0 && i < end) || (step < 0 && i > end) {
		ctx.Env.Set(node.Name.Literal, &object.Number{Value: i})
		i += step

		value := res.Register(e.Eval(node.Body, ctx))
		if res.ShouldReturn() && !res.LoopContinue && !res.LoopBreak {
			return res
		}
		if res.LoopContinue {
			continue
		}
		if res.LoopBreak {
			break
		}
		elements = append(elements, value)
	}

	if node.IsBlock {
		return res.Success(object.NULL)
	}
	list := &object.List{Elements: elements}
	list.Pos, list.Ctx = node.Span(), ctx
	return res.Success(list)
}

func (e *Evaluator) evalWhileExpression(node *ast.WhileExpression, ctx *object.Context) *RTResult {
	res := NewRTResult()
	var elements []object.Object

	for {
		cond := res.Register(e.Eval(node.Cond, ctx))
		if res.ShouldReturn() {
			return res
		}
		if !object.IsTruthy(cond) {
			break
		}

		value := res.Register(e.Eval(node.Body, ctx))
		if res.ShouldReturn() && !res.LoopContinue && !res.LoopBreak {
			return res
		}
		if res.LoopContinue {
			continue
		}
		if res.LoopBreak {
			break
		}
		elements = append(elements, value)
	}

	if node.IsBlock {
		return res.Success(object.NULL)
	}
	list := &object.List{Elements: elements}
	list.Pos, list.Ctx = node.Span(), ctx
	return res.Success(list)
}

// evalNumberOperand evaluates a loop-header expression that must be a number.
func (e *Evaluator) evalNumberOperand(res *RTResult, node ast.Node, ctx *object.Context, what string) (float64, *object.RTError) {
	value := res.Register(e.Eval(node, ctx))
	if res.ShouldReturn() {
		return 0, res.Err
	}
	num, ok := value.(*object.Number)
	if !ok {
		err := object.NewRTError(node.Span(), ctx, "%s must be a number", what)
		res.Failure(err)
		return 0, err
	}
	return num.Value, nil
}

func (e *Evaluator) evalFunctionLiteral(node *ast.FunctionLiteral, ctx *object.Context) *RTResult {
	res := NewRTResult()

	fn := &object.Function{
		Params:     make([]string, 0, len(node.Params)),
		Body:       node.Body,
		AutoReturn: node.AutoReturn,
		DefCtx:     ctx,
	}
	for _, p := range node.Params {
		fn.Params = append(fn.Params, p.Literal)
	}
	fn.Pos, fn.Ctx = node.Span(), ctx

	if node.Name != nil {
		fn.Name = node.Name.Literal
		ctx.Env.Set(fn.Name, fn)
	}

	return res.Success(fn)
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, ctx *object.Context) *RTResult {
	res := NewRTResult()

	var value object.Object = object.NULL
	if node.Value != nil {
		value = res.Register(e.Eval(node.Value, ctx))
		if res.ShouldReturn() {
			return res
		}
	}
	return res.SuccessReturn(value)
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, ctx *object.Context) *RTResult {
	res := NewRTResult()

	callee := res.Register(e.Eval(node.Callee, ctx))
	if res.ShouldReturn() {
		return res
	}

	var args []object.Object
	for _, argNode := range node.Arguments {
		arg := res.Register(e.Eval(argNode, ctx))
		if res.ShouldReturn() {
			return res
		}
		args = append(args, arg)
	}

	span := node.Span()
	switch fn := callee.(type) {
	case *object.Function:
		return e.applyFunction(fn, args, span, ctx)
	case *object.Builtin:
		return e.applyBuiltin(fn, args, span, ctx)
	default:
		return res.Failure(object.NewRTError(span, ctx,
			"'%s' is not a function", callee.Inspect()))
	}
}

// applyFunction runs a user function in a fresh context chained to the
// function's defining context, with the call site recorded for stack traces.
func (e *Evaluator) applyFunction(fn *object.Function, args []object.Object, callSpan token.Span, ctx *object.Context) *RTResult {
	res := NewRTResult()

	slog.Debug("applying function",
		slog.String("name", fn.DisplayName()),
		slog.Int("args", len(args)))

	execCtx := object.NewContext(fn.DisplayName(), fn.DefCtx, &callSpan)
	execCtx.Env = object.NewEnclosedEnvironment(fn.DefCtx.Env)

	if len(args) > len(fn.Params) {
		return res.Failure(object.NewRTError(callSpan, ctx,
			"%d too many args passed into '%s'", len(args)-len(fn.Params), fn.DisplayName()))
	}
	if len(args) < len(fn.Params) {
		return res.Failure(object.NewRTError(callSpan, ctx,
			"%d too few args passed into '%s'", len(fn.Params)-len(args), fn.DisplayName()))
	}

	for i, name := range fn.Params {
		execCtx.Env.Set(name, args[i])
	}

	value := res.Register(e.Eval(fn.Body, execCtx))
	if res.ShouldReturn() && res.FuncReturnValue == nil {
		return res
	}

	var ret object.Object
	if fn.AutoReturn {
		ret = value
	}
	if ret == nil {
		ret = res.FuncReturnValue
	}
	if ret == nil {
		ret = object.NULL
	}
	return res.Success(ret)
}
