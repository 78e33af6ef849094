package parser

import (
	"fmt"
	"strings"

	"parseflow/internal/ast"
)

// RenderProgram renders a parsed root node one statement per line. It backs
// the intermediate-code sink and the debug-ast flag.
func RenderProgram(root ast.Node) string {
	list, ok := root.(*ast.ListLiteral)
	if !ok {
		return RenderASTAsText(root, 0)
	}
	var sb strings.Builder
	for i, s := range list.Elements {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(RenderASTAsText(s, 0))
	}
	return sb.String()
}

// RenderASTAsText produces an indented, source-like rendering of one node.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil {
		return "null"
	}

	switch n := node.(type) {
	case *ast.ListLiteral:
		elems := []string{}
		for _, e := range n.Elements {
			elems = append(elems, RenderASTAsText(e, 0))
		}
		return "[" + strings.Join(elems, ", ") + "]"

	case *ast.VarExpression:
		return fmt.Sprintf("VAR %s = %s", n.Name.Literal, RenderASTAsText(n.Value, 0))

	case *ast.ReturnStatement:
		if n.Value == nil {
			return "RETURN"
		}
		return fmt.Sprintf("RETURN %s", RenderASTAsText(n.Value, 0))

	case *ast.ContinueStatement:
		return "CONTINUE"

	case *ast.BreakStatement:
		return "BREAK"

	case *ast.InfixExpression:
		return fmt.Sprintf("(%s %s %s)", RenderASTAsText(n.Left, 0), n.Op.Literal, RenderASTAsText(n.Right, 0))

	case *ast.PrefixExpression:
		sep := ""
		if len(n.Op.Literal) > 1 {
			sep = " "
		}
		return fmt.Sprintf("(%s%s%s)", n.Op.Literal, sep, RenderASTAsText(n.Right, 0))

	case *ast.IfExpression:
		var sb strings.Builder
		for i, c := range n.Cases {
			kw := "IF"
			if i > 0 {
				kw = " ELIF"
			}
			sb.WriteString(fmt.Sprintf("%s %s THEN %s", kw, RenderASTAsText(c.Cond, 0), renderBody(c.Body, c.IsBlock, indent)))
		}
		if n.Else != nil {
			sb.WriteString(" ELSE " + renderBody(n.Else.Body, n.Else.IsBlock, indent))
		}
		return sb.String()

	case *ast.ForExpression:
		step := ""
		if n.Step != nil {
			step = " STEP " + RenderASTAsText(n.Step, 0)
		}
		return fmt.Sprintf("FOR %s = %s TO %s%s THEN %s",
			n.Name.Literal, RenderASTAsText(n.Start, 0), RenderASTAsText(n.End, 0), step,
			renderBody(n.Body, n.IsBlock, indent))

	case *ast.WhileExpression:
		return fmt.Sprintf("WHILE %s THEN %s", RenderASTAsText(n.Cond, 0), renderBody(n.Body, n.IsBlock, indent))

	case *ast.FunctionLiteral:
		params := []string{}
		for _, p := range n.Params {
			params = append(params, p.Literal)
		}
		name := ""
		if n.Name != nil {
			name = n.Name.Literal
		}
		if n.AutoReturn {
			return fmt.Sprintf("FUN %s(%s) -> %s", name, strings.Join(params, ", "), RenderASTAsText(n.Body, 0))
		}
		return fmt.Sprintf("FUN %s(%s)%s", name, strings.Join(params, ", "), renderBlock(n.Body, indent))

	case *ast.CallExpression:
		args := []string{}
		for _, a := range n.Arguments {
			args = append(args, RenderASTAsText(a, 0))
		}
		return fmt.Sprintf("%s(%s)", RenderASTAsText(n.Callee, 0), strings.Join(args, ", "))

	case *ast.Identifier:
		return n.Value

	case *ast.NumberLiteral:
		return n.Token.Literal

	case *ast.StringLiteral:
		return fmt.Sprintf("%q", n.Value)

	default:
		return fmt.Sprintf("<unknown:%T>", n)
	}
}

func renderBody(body ast.Node, isBlock bool, indent int) string {
	if !isBlock {
		return RenderASTAsText(body, 0)
	}
	return renderBlock(body, indent)
}

// renderBlock prints a NEWLINE..END body with the statements indented one step.
func renderBlock(body ast.Node, indent int) string {
	sp := strings.Repeat("  ", indent)
	var sb strings.Builder
	sb.WriteString("\n")
	if list, ok := body.(*ast.ListLiteral); ok {
		for _, s := range list.Elements {
			sb.WriteString(strings.Repeat("  ", indent+1))
			sb.WriteString(RenderASTAsText(s, indent+1))
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString(strings.Repeat("  ", indent+1))
		sb.WriteString(RenderASTAsText(body, indent+1))
		sb.WriteString("\n")
	}
	sb.WriteString(sp + "END")
	return sb.String()
}
