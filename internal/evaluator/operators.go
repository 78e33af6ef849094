package evaluator

import (
	"math"
	"strings"

	"parseflow/internal/object"
	"parseflow/internal/token"
)

// applyInfix dispatches a binary operator over two evaluated operands.
// Anything the operator table does not cover is an illegal operation.
func applyInfix(op token.Token, left, right object.Object, span token.Span, ctx *object.Context) (object.Object, *object.RTError) {
	switch {
	case op.Type == token.PLUS:
		return applyAdd(left, right, span, ctx)
	case op.Type == token.MINUS:
		return applySub(left, right, span, ctx)
	case op.Type == token.MUL:
		return applyMul(left, right, span, ctx)
	case op.Type == token.DIV:
		return applyDiv(left, right, span, ctx)
	case op.Type == token.POW:
		return applyPow(left, right, span, ctx)
	case op.Type == token.EE:
		return boolean(valuesEqual(left, right), span, ctx), nil
	case op.Type == token.NE:
		return boolean(!valuesEqual(left, right), span, ctx), nil
	case op.Type == token.LT || op.Type == token.GT || op.Type == token.LTE || op.Type == token.GTE:
		return applyOrdered(op.Type, left, right, span, ctx)
	case op.Matches(token.KEYWORD, token.AND):
		return boolean(object.IsTruthy(left) && object.IsTruthy(right), span, ctx), nil
	case op.Matches(token.KEYWORD, token.OR):
		return boolean(object.IsTruthy(left) || object.IsTruthy(right), span, ctx), nil
	}
	return nil, illegalOperation(span, ctx)
}

func applyPrefix(op token.Token, right object.Object, span token.Span, ctx *object.Context) (object.Object, *object.RTError) {
	switch {
	case op.Type == token.MINUS:
		num, ok := right.(*object.Number)
		if !ok {
			return nil, illegalOperation(span, ctx)
		}
		return number(-num.Value, span, ctx), nil
	case op.Type == token.PLUS:
		if _, ok := right.(*object.Number); !ok {
			return nil, illegalOperation(span, ctx)
		}
		return right, nil
	case op.Matches(token.KEYWORD, token.NOT):
		return boolean(!object.IsTruthy(right), span, ctx), nil
	}
	return nil, illegalOperation(span, ctx)
}

func applyAdd(left, right object.Object, span token.Span, ctx *object.Context) (object.Object, *object.RTError) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return number(l.Value+r.Value, span, ctx), nil
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			s := &object.String{Value: l.Value + r.Value}
			s.Pos, s.Ctx = span, ctx
			return s, nil
		}
	case *object.List:
		// list + value appends to a copy; the operand list is untouched.
		elements := make([]object.Object, len(l.Elements), len(l.Elements)+1)
		copy(elements, l.Elements)
		elements = append(elements, right)
		list := &object.List{Elements: elements}
		list.Pos, list.Ctx = span, ctx
		return list, nil
	}
	return nil, illegalOperation(span, ctx)
}

func applySub(left, right object.Object, span token.Span, ctx *object.Context) (object.Object, *object.RTError) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return number(l.Value-r.Value, span, ctx), nil
		}
	case *object.List:
		if r, ok := right.(*object.Number); ok {
			idx := int(math.Floor(r.Value))
			if idx < 0 || idx >= len(l.Elements) {
				return nil, object.NewRTError(span, ctx,
					"Element at this index could not be removed from list because index is out of bounds")
			}
			elements := make([]object.Object, 0, len(l.Elements)-1)
			elements = append(elements, l.Elements[:idx]...)
			elements = append(elements, l.Elements[idx+1:]...)
			list := &object.List{Elements: elements}
			list.Pos, list.Ctx = span, ctx
			return list, nil
		}
	}
	return nil, illegalOperation(span, ctx)
}

func applyMul(left, right object.Object, span token.Span, ctx *object.Context) (object.Object, *object.RTError) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return number(l.Value*r.Value, span, ctx), nil
		}
	case *object.String:
		// string * number repeats; the count is the non-negative integer
		// part of the number.
		if r, ok := right.(*object.Number); ok {
			count := int(math.Floor(r.Value))
			if count < 0 {
				count = 0
			}
			s := &object.String{Value: strings.Repeat(l.Value, count)}
			s.Pos, s.Ctx = span, ctx
			return s, nil
		}
	case *object.List:
		if r, ok := right.(*object.List); ok {
			elements := make([]object.Object, 0, len(l.Elements)+len(r.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, r.Elements...)
			list := &object.List{Elements: elements}
			list.Pos, list.Ctx = span, ctx
			return list, nil
		}
	}
	return nil, illegalOperation(span, ctx)
}

func applyDiv(left, right object.Object, span token.Span, ctx *object.Context) (object.Object, *object.RTError) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			if r.Value == 0 {
				return nil, object.NewRTError(span, ctx, "Division by zero")
			}
			return number(l.Value/r.Value, span, ctx), nil
		}
	case *object.List:
		if r, ok := right.(*object.Number); ok {
			idx := int(math.Floor(r.Value))
			if idx < 0 || idx >= len(l.Elements) {
				return nil, object.NewRTError(span, ctx,
					"Element at this index could not be retrieved from list because index is out of bounds")
			}
			return l.Elements[idx], nil
		}
	}
	return nil, illegalOperation(span, ctx)
}

func applyPow(left, right object.Object, span token.Span, ctx *object.Context) (object.Object, *object.RTError) {
	l, ok := left.(*object.Number)
	if !ok {
		return nil, illegalOperation(span, ctx)
	}
	r, ok := right.(*object.Number)
	if !ok {
		return nil, illegalOperation(span, ctx)
	}
	return number(math.Pow(l.Value, r.Value), span, ctx), nil
}

func applyOrdered(typ token.TokenType, left, right object.Object, span token.Span, ctx *object.Context) (object.Object, *object.RTError) {
	l, ok := left.(*object.Number)
	if !ok {
		return nil, illegalOperation(span, ctx)
	}
	r, ok := right.(*object.Number)
	if !ok {
		return nil, illegalOperation(span, ctx)
	}

	var result bool
	switch typ {
	case token.LT:
		result = l.Value < r.Value
	case token.GT:
		result = l.Value > r.Value
	case token.LTE:
		result = l.Value <= r.Value
	case token.GTE:
		result = l.Value >= r.Value
	}
	return boolean(result, span, ctx), nil
}

// valuesEqual: numbers and strings structurally, lists and functions by
// identity; values of different kinds are never equal.
func valuesEqual(left, right object.Object) bool {
	switch l := left.(type) {
	case *object.Number:
		r, ok := right.(*object.Number)
		return ok && l.Value == r.Value
	case *object.String:
		r, ok := right.(*object.String)
		return ok && l.Value == r.Value
	case *object.Null:
		_, ok := right.(*object.Null)
		return ok
	default:
		return left == right
	}
}

func number(value float64, span token.Span, ctx *object.Context) *object.Number {
	n := &object.Number{Value: value}
	n.Pos, n.Ctx = span, ctx
	return n
}

func boolean(value bool, span token.Span, ctx *object.Context) *object.Number {
	if value {
		return number(1, span, ctx)
	}
	return number(0, span, ctx)
}

func illegalOperation(span token.Span, ctx *object.Context) *object.RTError {
	return object.NewRTError(span, ctx, "Illegal operation")
}
