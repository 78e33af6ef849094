package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parseflow/internal/ast"
	"parseflow/internal/diag"
	"parseflow/internal/lexer"
	"parseflow/internal/token"
)

func parseProgram(t *testing.T, input string) *ast.ListLiteral {
	t.Helper()

	toks, lexErr := lexer.New("<test>", input).Tokens()
	require.Nil(t, lexErr)

	res := New(toks).Parse()
	require.Nil(t, res.Err, "parse error: %v", res.Err)

	root, ok := res.Node.(*ast.ListLiteral)
	require.True(t, ok, "root node is %T, want *ast.ListLiteral", res.Node)
	return root
}

func parseError(t *testing.T, input string) *diag.Error {
	t.Helper()

	toks, lexErr := lexer.New("<test>", input).Tokens()
	require.Nil(t, lexErr)

	res := New(toks).Parse()
	require.NotNil(t, res.Err, "expected a parse error for %q", input)
	return res.Err
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-5 + 3", "((-5) + 3)"},
		{"1 + 2 == 3", "((1 + 2) == 3)"},
		{"1 < 2 AND 2 < 3", "((1 < 2) AND (2 < 3))"},
		{"NOT 1 == 1", "(NOT (1 == 1))"},
		{"1 AND 2 OR 3", "((1 AND 2) OR 3)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ^ 3 * 4", "((2 ^ 3) * 4)"},
	}

	for _, tt := range tests {
		root := parseProgram(t, tt.input)
		require.Len(t, root.Elements, 1, "input %q", tt.input)
		require.Equal(t, tt.expected, root.Elements[0].String(), "input %q", tt.input)
	}
}

func TestVarExpression(t *testing.T) {
	root := parseProgram(t, "VAR a = 5")
	require.Len(t, root.Elements, 1)

	v, ok := root.Elements[0].(*ast.VarExpression)
	require.True(t, ok)
	require.Equal(t, "a", v.Name.Literal)
	require.Equal(t, "VAR a = 5", v.String())
}

func TestStatementsSeparators(t *testing.T) {
	root := parseProgram(t, "VAR a = 5 ; a + 3")
	require.Len(t, root.Elements, 2)

	root = parseProgram(t, "\n\nVAR a = 5\na + 3\n\n")
	require.Len(t, root.Elements, 2)
}

func TestCallExpression(t *testing.T) {
	root := parseProgram(t, "add(1, 2 * 3)")

	call, ok := root.Elements[0].(*ast.CallExpression)
	require.True(t, ok)
	require.Len(t, call.Arguments, 2)
	require.Equal(t, "add(1, (2 * 3))", call.String())

	root = parseProgram(t, "f()")
	call, ok = root.Elements[0].(*ast.CallExpression)
	require.True(t, ok)
	require.Empty(t, call.Arguments)
}

func TestListLiteral(t *testing.T) {
	root := parseProgram(t, "[1, 2, 3]")

	list, ok := root.Elements[0].(*ast.ListLiteral)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)

	root = parseProgram(t, "[]")
	list, ok = root.Elements[0].(*ast.ListLiteral)
	require.True(t, ok)
	require.Empty(t, list.Elements)
}

func TestIfExpression(t *testing.T) {
	root := parseProgram(t, `IF 1 == 2 THEN "a" ELIF 2 == 2 THEN "b" ELSE "c"`)

	ifExpr, ok := root.Elements[0].(*ast.IfExpression)
	require.True(t, ok)
	require.Len(t, ifExpr.Cases, 2)
	require.NotNil(t, ifExpr.Else)
	require.False(t, ifExpr.Cases[0].IsBlock)
	require.False(t, ifExpr.Else.IsBlock)
}

func TestIfBlockForm(t *testing.T) {
	input := "IF 1 THEN\nPRINT(1)\nPRINT(2)\nEND"
	root := parseProgram(t, input)

	ifExpr, ok := root.Elements[0].(*ast.IfExpression)
	require.True(t, ok)
	require.Len(t, ifExpr.Cases, 1)
	require.True(t, ifExpr.Cases[0].IsBlock)

	body, ok := ifExpr.Cases[0].Body.(*ast.ListLiteral)
	require.True(t, ok)
	require.Len(t, body.Elements, 2)
}

func TestForExpression(t *testing.T) {
	root := parseProgram(t, "FOR i = 0 TO 10 STEP 2 THEN i")

	forExpr, ok := root.Elements[0].(*ast.ForExpression)
	require.True(t, ok)
	require.Equal(t, "i", forExpr.Name.Literal)
	require.NotNil(t, forExpr.Step)
	require.False(t, forExpr.IsBlock)

	root = parseProgram(t, "FOR i = 0 TO 3 THEN\ni\nEND")
	forExpr, ok = root.Elements[0].(*ast.ForExpression)
	require.True(t, ok)
	require.Nil(t, forExpr.Step)
	require.True(t, forExpr.IsBlock)
}

func TestWhileExpression(t *testing.T) {
	root := parseProgram(t, "WHILE x < 3 THEN VAR x = x + 1")

	whileExpr, ok := root.Elements[0].(*ast.WhileExpression)
	require.True(t, ok)
	require.False(t, whileExpr.IsBlock)
}

func TestFuncDef(t *testing.T) {
	root := parseProgram(t, "FUN add(a, b) -> a + b")

	fn, ok := root.Elements[0].(*ast.FunctionLiteral)
	require.True(t, ok)
	require.NotNil(t, fn.Name)
	require.Equal(t, "add", fn.Name.Literal)
	require.Len(t, fn.Params, 2)
	require.True(t, fn.AutoReturn)

	root = parseProgram(t, "FUN (x) -> x")
	fn, ok = root.Elements[0].(*ast.FunctionLiteral)
	require.True(t, ok)
	require.Nil(t, fn.Name)

	root = parseProgram(t, "FUN f()\nRETURN 1\nEND")
	fn, ok = root.Elements[0].(*ast.FunctionLiteral)
	require.True(t, ok)
	require.False(t, fn.AutoReturn)

	body, ok := fn.Body.(*ast.ListLiteral)
	require.True(t, ok)
	require.Len(t, body.Elements, 1)
	_, ok = body.Elements[0].(*ast.ReturnStatement)
	require.True(t, ok)
}

func TestBareReturn(t *testing.T) {
	root := parseProgram(t, "FUN f()\nRETURN\nEND")

	fn := root.Elements[0].(*ast.FunctionLiteral)
	body := fn.Body.(*ast.ListLiteral)
	ret, ok := body.Elements[0].(*ast.ReturnStatement)
	require.True(t, ok)
	require.Nil(t, ret.Value)
}

func TestContinueAndBreak(t *testing.T) {
	root := parseProgram(t, "WHILE 1 THEN\nCONTINUE\nBREAK\nEND")

	body := root.Elements[0].(*ast.WhileExpression).Body.(*ast.ListLiteral)
	require.Len(t, body.Elements, 2)
	_, ok := body.Elements[0].(*ast.ContinueStatement)
	require.True(t, ok)
	_, ok = body.Elements[1].(*ast.BreakStatement)
	require.True(t, ok)
}

func TestNodeSpansAreOrdered(t *testing.T) {
	input := "VAR a = 5\nFOR i = 0 TO 3 THEN i"
	root := parseProgram(t, input)

	var check func(n ast.Node)
	check = func(n ast.Node) {
		span := n.Span()
		require.LessOrEqual(t, span.Start.Idx, span.End.Idx)
		require.LessOrEqual(t, span.End.Idx, len(input))

		switch n := n.(type) {
		case *ast.ListLiteral:
			for _, e := range n.Elements {
				check(e)
			}
		case *ast.VarExpression:
			check(n.Value)
		case *ast.ForExpression:
			check(n.Start)
			check(n.End)
			check(n.Body)
		case *ast.InfixExpression:
			check(n.Left)
			check(n.Right)
		}
	}
	check(root)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input       string
		expectedMsg string
	}{
		{"1 +", "Expected int, float, identifier, '+', '-', '(', '[', 'IF', 'FOR', 'WHILE', 'FUN'"},
		{"1 2", "Token cannot appear after previous tokens"},
		{"VAR 5 = 3", "Expected identifier"},
		{"VAR a 5", "Expected '='"},
		{"(1 + 2", "Expected ')'"},
		{"[1, 2", "Expected ',' or ']'"},
		{"f(1, ", "Expected 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"},
		{"IF 1 PRINT(1)", "Expected 'THEN'"},
		{"FOR i = 0 THEN i", "Expected 'TO'"},
		{"FUN f(a b) -> a", "Expected ',' or ')'"},
		{"FUN f() 1", "Expected '->' or NEWLINE"},
		{"IF 1 THEN\n1\nELSE\n2\n", "Expected 'END'"},
		{"FOR i = 0 TO 3 THEN\ni\n", "Expected 'END'"},
	}

	for _, tt := range tests {
		err := parseError(t, tt.input)
		require.Equal(t, diag.InvalidSyntaxError, err.Kind, "input %q", tt.input)
		require.Equal(t, tt.expectedMsg, err.Msg, "input %q", tt.input)
	}
}

func TestDeepestErrorWins(t *testing.T) {
	// The failure is inside the call arguments, well past the first token;
	// the reported error must come from the deep position, not the shallow
	// statement-level alternative.
	err := parseError(t, "add(1, VAR)")
	require.Equal(t, diag.InvalidSyntaxError, err.Kind)
	require.Greater(t, err.Span.Start.Idx, 4)
}

func TestRenderProgram(t *testing.T) {
	toks, lexErr := lexer.New("<test>", "VAR a = 1 + 2\nPRINT(a)").Tokens()
	require.Nil(t, lexErr)
	res := New(toks).Parse()
	require.Nil(t, res.Err)

	require.Equal(t, "VAR a = (1 + 2)\nPRINT(a)", RenderProgram(res.Node))
}

func TestRenderBlockForms(t *testing.T) {
	toks, lexErr := lexer.New("<test>", "FUN f(x)\nRETURN x\nEND").Tokens()
	require.Nil(t, lexErr)
	res := New(toks).Parse()
	require.Nil(t, res.Err)

	require.Equal(t, "FUN f(x)\n  RETURN x\nEND", RenderProgram(res.Node))
}

func TestEOFTokenRequired(t *testing.T) {
	// Parse straight from a hand-built token slice: the parser relies on the
	// trailing EOF the lexer always appends.
	toks := []token.Token{
		{Type: token.INT, Literal: "1"},
		{Type: token.EOF},
	}
	res := New(toks).Parse()
	require.Nil(t, res.Err)

	num := res.Node.(*ast.ListLiteral).Elements[0].(*ast.NumberLiteral)
	require.Equal(t, 1.0, num.Value)
}
