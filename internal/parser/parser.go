package parser

import (
	"strconv"

	"parseflow/internal/ast"
	"parseflow/internal/diag"
	"parseflow/internal/token"
)

// Parser is a recursive-descent parser over a lexed token slice. It produces
// a single root node (a ListLiteral of statements) or the deepest error the
// descent registered.
type Parser struct {
	tokens []token.Token
	tokIdx int
	cur    token.Token
}

func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens, tokIdx: -1}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.tokIdx++
	p.updateCur()
}

// reverse rewinds a failed speculation by the registered advance count.
func (p *Parser) reverse(amount int) {
	p.tokIdx -= amount
	p.updateCur()
}

func (p *Parser) updateCur() {
	if p.tokIdx >= 0 && p.tokIdx < len(p.tokens) {
		p.cur = p.tokens[p.tokIdx]
	}
}

func (p *Parser) Parse() *ParseResult {
	res := p.parseStatements()
	if res.Err == nil && p.cur.Type != token.EOF {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span,
			"Token cannot appear after previous tokens"))
	}
	return res
}

// statements : NEWLINE* statement (NEWLINE+ statement)* NEWLINE*
func (p *Parser) parseStatements() *ParseResult {
	res := &ParseResult{}
	var statements []ast.Node
	start := p.cur.Span.Start

	for p.cur.Type == token.NEWLINE {
		res.registerAdvancement()
		p.advance()
	}

	stmt := res.register(p.parseStatement())
	if res.Err != nil {
		return res
	}
	statements = append(statements, stmt)

	moreStatements := true
	for {
		newlines := 0
		for p.cur.Type == token.NEWLINE {
			res.registerAdvancement()
			p.advance()
			newlines++
		}
		if newlines == 0 {
			moreStatements = false
		}
		if !moreStatements {
			break
		}

		stmt := res.tryRegister(p.parseStatement())
		if stmt == nil {
			p.reverse(res.ToReverseCount)
			moreStatements = false
			continue
		}
		statements = append(statements, stmt)
	}

	return res.success(&ast.ListLiteral{
		Elements: statements,
		Loc:      token.NewSpan(start, p.cur.Span.End),
	})
}

// statement : RETURN expr? | CONTINUE | BREAK | expr
func (p *Parser) parseStatement() *ParseResult {
	res := &ParseResult{}
	start := p.cur.Span.Start

	if p.cur.Matches(token.KEYWORD, token.RETURN) {
		res.registerAdvancement()
		p.advance()

		expr := res.tryRegister(p.parseExpr())
		if expr == nil {
			p.reverse(res.ToReverseCount)
		}
		return res.success(&ast.ReturnStatement{
			Value: expr,
			Loc:   token.NewSpan(start, p.cur.Span.Start),
		})
	}

	if p.cur.Matches(token.KEYWORD, token.CONTINUE) {
		res.registerAdvancement()
		p.advance()
		return res.success(&ast.ContinueStatement{Loc: token.NewSpan(start, p.cur.Span.Start)})
	}

	if p.cur.Matches(token.KEYWORD, token.BREAK) {
		res.registerAdvancement()
		p.advance()
		return res.success(&ast.BreakStatement{Loc: token.NewSpan(start, p.cur.Span.Start)})
	}

	expr := res.register(p.parseExpr())
	if res.Err != nil {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span,
			"Expected 'RETURN', 'CONTINUE', 'BREAK', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"))
	}
	return res.success(expr)
}

// expr : VAR IDENTIFIER EQ expr | comp-expr ((AND|OR) comp-expr)*
func (p *Parser) parseExpr() *ParseResult {
	res := &ParseResult{}
	start := p.cur.Span.Start

	if p.cur.Matches(token.KEYWORD, token.VAR) {
		varTok := p.cur
		res.registerAdvancement()
		p.advance()

		if p.cur.Type != token.IDENTIFIER {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected identifier"))
		}
		name := p.cur
		res.registerAdvancement()
		p.advance()

		if p.cur.Type != token.EQ {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected '='"))
		}
		res.registerAdvancement()
		p.advance()

		value := res.register(p.parseExpr())
		if res.Err != nil {
			return res
		}
		return res.success(&ast.VarExpression{
			Token: varTok,
			Name:  name,
			Value: value,
			Loc:   token.NewSpan(start, value.Span().End),
		})
	}

	node := res.register(p.parseBinOp(p.parseCompExpr, opSet{keywords: []string{token.AND, token.OR}}, p.parseCompExpr))
	if res.Err != nil {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span,
			"Expected 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"))
	}
	return res.success(node)
}

// comp-expr : NOT comp-expr | arith-expr ((EE|NE|LT|GT|LTE|GTE) arith-expr)*
func (p *Parser) parseCompExpr() *ParseResult {
	res := &ParseResult{}

	if p.cur.Matches(token.KEYWORD, token.NOT) {
		op := p.cur
		res.registerAdvancement()
		p.advance()

		node := res.register(p.parseCompExpr())
		if res.Err != nil {
			return res
		}
		return res.success(&ast.PrefixExpression{
			Op:    op,
			Right: node,
			Loc:   token.NewSpan(op.Span.Start, node.Span().End),
		})
	}

	node := res.register(p.parseBinOp(p.parseArithExpr, opSet{
		types: []token.TokenType{token.EE, token.NE, token.LT, token.GT, token.LTE, token.GTE},
	}, p.parseArithExpr))
	if res.Err != nil {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span,
			"Expected int, float, identifier, '+', '-', '(', '[', 'IF', 'FOR', 'WHILE', 'FUN' or 'NOT'"))
	}
	return res.success(node)
}

// arith-expr : term ((PLUS|MINUS) term)*
func (p *Parser) parseArithExpr() *ParseResult {
	return p.parseBinOp(p.parseTerm, opSet{types: []token.TokenType{token.PLUS, token.MINUS}}, p.parseTerm)
}

// term : factor ((MUL|DIV) factor)*
func (p *Parser) parseTerm() *ParseResult {
	return p.parseBinOp(p.parseFactor, opSet{types: []token.TokenType{token.MUL, token.DIV}}, p.parseFactor)
}

// factor : (PLUS|MINUS) factor | power
func (p *Parser) parseFactor() *ParseResult {
	res := &ParseResult{}

	if p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		op := p.cur
		res.registerAdvancement()
		p.advance()

		factor := res.register(p.parseFactor())
		if res.Err != nil {
			return res
		}
		return res.success(&ast.PrefixExpression{
			Op:    op,
			Right: factor,
			Loc:   token.NewSpan(op.Span.Start, factor.Span().End),
		})
	}

	return p.parsePower()
}

// power : call (POW factor)* — right-associative through the factor recursion.
func (p *Parser) parsePower() *ParseResult {
	return p.parseBinOp(p.parseCall, opSet{types: []token.TokenType{token.POW}}, p.parseFactor)
}

// call : atom (LPAREN (expr (COMMA expr)*)? RPAREN)?
func (p *Parser) parseCall() *ParseResult {
	res := &ParseResult{}

	atom := res.register(p.parseAtom())
	if res.Err != nil {
		return res
	}

	if p.cur.Type != token.LPAREN {
		return res.success(atom)
	}
	res.registerAdvancement()
	p.advance()

	var args []ast.Node
	if p.cur.Type == token.RPAREN {
		res.registerAdvancement()
		p.advance()
	} else {
		arg := res.register(p.parseExpr())
		if res.Err != nil {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span,
				"Expected ')', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"))
		}
		args = append(args, arg)

		for p.cur.Type == token.COMMA {
			res.registerAdvancement()
			p.advance()

			arg := res.register(p.parseExpr())
			if res.Err != nil {
				return res
			}
			args = append(args, arg)
		}

		if p.cur.Type != token.RPAREN {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected ',' or ')'"))
		}
		res.registerAdvancement()
		p.advance()
	}

	return res.success(&ast.CallExpression{
		Callee:    atom,
		Arguments: args,
		Loc:       token.NewSpan(atom.Span().Start, p.cur.Span.Start),
	})
}

// atom : INT|FLOAT|STRING|IDENTIFIER | LPAREN expr RPAREN | list-expr
//
//	| if-expr | for-expr | while-expr | func-def
func (p *Parser) parseAtom() *ParseResult {
	res := &ParseResult{}
	tok := p.cur

	switch {
	case tok.Type == token.INT || tok.Type == token.FLOAT:
		res.registerAdvancement()
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return res.failure(diag.NewInvalidSyntax(tok.Span, "Invalid number literal"))
		}
		return res.success(&ast.NumberLiteral{Token: tok, Value: value})

	case tok.Type == token.STRING:
		res.registerAdvancement()
		p.advance()
		return res.success(&ast.StringLiteral{Token: tok, Value: tok.Literal})

	case tok.Type == token.IDENTIFIER:
		res.registerAdvancement()
		p.advance()
		return res.success(&ast.Identifier{Token: tok, Value: tok.Literal})

	case tok.Type == token.LPAREN:
		res.registerAdvancement()
		p.advance()
		expr := res.register(p.parseExpr())
		if res.Err != nil {
			return res
		}
		if p.cur.Type != token.RPAREN {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected ')'"))
		}
		res.registerAdvancement()
		p.advance()
		return res.success(expr)

	case tok.Type == token.LSQUARE:
		return p.parseListExpr()

	case tok.Matches(token.KEYWORD, token.IF):
		return p.parseIfExpr()

	case tok.Matches(token.KEYWORD, token.FOR):
		return p.parseForExpr()

	case tok.Matches(token.KEYWORD, token.WHILE):
		return p.parseWhileExpr()

	case tok.Matches(token.KEYWORD, token.FUN):
		return p.parseFuncDef()
	}

	return res.failure(diag.NewInvalidSyntax(tok.Span,
		"Expected int, float, identifier, '+', '-', '(', '[', 'IF', 'FOR', 'WHILE', 'FUN'"))
}

// list-expr : LSQUARE (expr (COMMA expr)*)? RSQUARE
func (p *Parser) parseListExpr() *ParseResult {
	res := &ParseResult{}
	start := p.cur.Span.Start

	if p.cur.Type != token.LSQUARE {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected '['"))
	}
	res.registerAdvancement()
	p.advance()

	var elements []ast.Node
	if p.cur.Type == token.RSQUARE {
		res.registerAdvancement()
		p.advance()
	} else {
		elem := res.register(p.parseExpr())
		if res.Err != nil {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span,
				"Expected ']', 'VAR', 'IF', 'FOR', 'WHILE', 'FUN', int, float, identifier, '+', '-', '(', '[' or 'NOT'"))
		}
		elements = append(elements, elem)

		for p.cur.Type == token.COMMA {
			res.registerAdvancement()
			p.advance()

			elem := res.register(p.parseExpr())
			if res.Err != nil {
				return res
			}
			elements = append(elements, elem)
		}

		if p.cur.Type != token.RSQUARE {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected ',' or ']'"))
		}
		res.registerAdvancement()
		p.advance()
	}

	return res.success(&ast.ListLiteral{
		Elements: elements,
		Loc:      token.NewSpan(start, p.cur.Span.Start),
	})
}

// if-expr : IF expr THEN (statement | NEWLINE statements END?) elif/else chain
func (p *Parser) parseIfExpr() *ParseResult {
	res := &ParseResult{}
	start := p.cur.Span.Start

	cases, elseCase := p.parseIfCases(token.IF, res)
	if res.Err != nil {
		return res
	}
	return res.success(&ast.IfExpression{
		Cases: cases,
		Else:  elseCase,
		Loc:   token.NewSpan(start, p.cur.Span.Start),
	})
}

func (p *Parser) parseIfCases(keyword string, res *ParseResult) ([]ast.IfCase, *ast.ElseCase) {
	if !p.cur.Matches(token.KEYWORD, keyword) {
		res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected '"+keyword+"'"))
		return nil, nil
	}
	res.registerAdvancement()
	p.advance()

	cond := res.register(p.parseExpr())
	if res.Err != nil {
		return nil, nil
	}

	if !p.cur.Matches(token.KEYWORD, token.THEN) {
		res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected 'THEN'"))
		return nil, nil
	}
	res.registerAdvancement()
	p.advance()

	var cases []ast.IfCase
	var elseCase *ast.ElseCase

	if p.cur.Type == token.NEWLINE {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.parseStatements())
		if res.Err != nil {
			return nil, nil
		}
		cases = append(cases, ast.IfCase{Cond: cond, Body: body, IsBlock: true})

		if p.cur.Matches(token.KEYWORD, token.END) {
			res.registerAdvancement()
			p.advance()
		} else {
			moreCases, elseC := p.parseElifOrElse(res)
			if res.Err != nil {
				return nil, nil
			}
			cases = append(cases, moreCases...)
			elseCase = elseC
		}
	} else {
		body := res.register(p.parseStatement())
		if res.Err != nil {
			return nil, nil
		}
		cases = append(cases, ast.IfCase{Cond: cond, Body: body, IsBlock: false})

		moreCases, elseC := p.parseElifOrElse(res)
		if res.Err != nil {
			return nil, nil
		}
		cases = append(cases, moreCases...)
		elseCase = elseC
	}

	return cases, elseCase
}

func (p *Parser) parseElifOrElse(res *ParseResult) ([]ast.IfCase, *ast.ElseCase) {
	if p.cur.Matches(token.KEYWORD, token.ELIF) {
		return p.parseIfCases(token.ELIF, res)
	}
	return nil, p.parseElseCase(res)
}

func (p *Parser) parseElseCase(res *ParseResult) *ast.ElseCase {
	if !p.cur.Matches(token.KEYWORD, token.ELSE) {
		return nil
	}
	res.registerAdvancement()
	p.advance()

	if p.cur.Type == token.NEWLINE {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.parseStatements())
		if res.Err != nil {
			return nil
		}
		if !p.cur.Matches(token.KEYWORD, token.END) {
			res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected 'END'"))
			return nil
		}
		res.registerAdvancement()
		p.advance()
		return &ast.ElseCase{Body: body, IsBlock: true}
	}

	body := res.register(p.parseStatement())
	if res.Err != nil {
		return nil
	}
	return &ast.ElseCase{Body: body, IsBlock: false}
}

// for-expr : FOR IDENTIFIER EQ expr TO expr (STEP expr)? THEN body
func (p *Parser) parseForExpr() *ParseResult {
	res := &ParseResult{}
	start := p.cur.Span.Start

	res.registerAdvancement()
	p.advance()

	if p.cur.Type != token.IDENTIFIER {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected identifier"))
	}
	name := p.cur
	res.registerAdvancement()
	p.advance()

	if p.cur.Type != token.EQ {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected '='"))
	}
	res.registerAdvancement()
	p.advance()

	startValue := res.register(p.parseExpr())
	if res.Err != nil {
		return res
	}

	if !p.cur.Matches(token.KEYWORD, token.TO) {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected 'TO'"))
	}
	res.registerAdvancement()
	p.advance()

	endValue := res.register(p.parseExpr())
	if res.Err != nil {
		return res
	}

	var stepValue ast.Node
	if p.cur.Matches(token.KEYWORD, token.STEP) {
		res.registerAdvancement()
		p.advance()

		stepValue = res.register(p.parseExpr())
		if res.Err != nil {
			return res
		}
	}

	if !p.cur.Matches(token.KEYWORD, token.THEN) {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected 'THEN'"))
	}
	res.registerAdvancement()
	p.advance()

	if p.cur.Type == token.NEWLINE {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.parseStatements())
		if res.Err != nil {
			return res
		}

		if !p.cur.Matches(token.KEYWORD, token.END) {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected 'END'"))
		}
		res.registerAdvancement()
		p.advance()

		return res.success(&ast.ForExpression{
			Name: name, Start: startValue, End: endValue, Step: stepValue,
			Body: body, IsBlock: true,
			Loc: token.NewSpan(start, p.cur.Span.Start),
		})
	}

	body := res.register(p.parseStatement())
	if res.Err != nil {
		return res
	}

	return res.success(&ast.ForExpression{
		Name: name, Start: startValue, End: endValue, Step: stepValue,
		Body: body, IsBlock: false,
		Loc: token.NewSpan(start, body.Span().End),
	})
}

// while-expr : WHILE expr THEN body
func (p *Parser) parseWhileExpr() *ParseResult {
	res := &ParseResult{}
	start := p.cur.Span.Start

	res.registerAdvancement()
	p.advance()

	cond := res.register(p.parseExpr())
	if res.Err != nil {
		return res
	}

	if !p.cur.Matches(token.KEYWORD, token.THEN) {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected 'THEN'"))
	}
	res.registerAdvancement()
	p.advance()

	if p.cur.Type == token.NEWLINE {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.parseStatements())
		if res.Err != nil {
			return res
		}

		if !p.cur.Matches(token.KEYWORD, token.END) {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected 'END'"))
		}
		res.registerAdvancement()
		p.advance()

		return res.success(&ast.WhileExpression{
			Cond: cond, Body: body, IsBlock: true,
			Loc: token.NewSpan(start, p.cur.Span.Start),
		})
	}

	body := res.register(p.parseStatement())
	if res.Err != nil {
		return res
	}

	return res.success(&ast.WhileExpression{
		Cond: cond, Body: body, IsBlock: false,
		Loc: token.NewSpan(start, body.Span().End),
	})
}

// func-def : FUN IDENTIFIER? LPAREN (IDENTIFIER (COMMA IDENTIFIER)*)? RPAREN
//
//	(ARROW expr | NEWLINE statements END)
func (p *Parser) parseFuncDef() *ParseResult {
	res := &ParseResult{}
	start := p.cur.Span.Start

	res.registerAdvancement()
	p.advance()

	var name *token.Token
	if p.cur.Type == token.IDENTIFIER {
		tok := p.cur
		name = &tok
		res.registerAdvancement()
		p.advance()
		if p.cur.Type != token.LPAREN {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected '('"))
		}
	} else if p.cur.Type != token.LPAREN {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected identifier or '('"))
	}
	res.registerAdvancement()
	p.advance()

	var params []token.Token
	if p.cur.Type == token.IDENTIFIER {
		params = append(params, p.cur)
		res.registerAdvancement()
		p.advance()

		for p.cur.Type == token.COMMA {
			res.registerAdvancement()
			p.advance()

			if p.cur.Type != token.IDENTIFIER {
				return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected identifier"))
			}
			params = append(params, p.cur)
			res.registerAdvancement()
			p.advance()
		}

		if p.cur.Type != token.RPAREN {
			return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected ',' or ')'"))
		}
	} else if p.cur.Type != token.RPAREN {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected identifier or ')'"))
	}
	res.registerAdvancement()
	p.advance()

	if p.cur.Type == token.ARROW {
		res.registerAdvancement()
		p.advance()

		body := res.register(p.parseExpr())
		if res.Err != nil {
			return res
		}

		return res.success(&ast.FunctionLiteral{
			Name: name, Params: params, Body: body, AutoReturn: true,
			Loc: token.NewSpan(start, body.Span().End),
		})
	}

	if p.cur.Type != token.NEWLINE {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected '->' or NEWLINE"))
	}
	res.registerAdvancement()
	p.advance()

	body := res.register(p.parseStatements())
	if res.Err != nil {
		return res
	}

	if !p.cur.Matches(token.KEYWORD, token.END) {
		return res.failure(diag.NewInvalidSyntax(p.cur.Span, "Expected 'END'"))
	}
	res.registerAdvancement()
	p.advance()

	return res.success(&ast.FunctionLiteral{
		Name: name, Params: params, Body: body, AutoReturn: false,
		Loc: token.NewSpan(start, p.cur.Span.Start),
	})
}

// opSet describes the operator tokens one precedence level accepts.
type opSet struct {
	types    []token.TokenType
	keywords []string
}

func (o opSet) match(t token.Token) bool {
	for _, typ := range o.types {
		if t.Type == typ {
			return true
		}
	}
	for _, kw := range o.keywords {
		if t.Matches(token.KEYWORD, kw) {
			return true
		}
	}
	return false
}

func (p *Parser) parseBinOp(left func() *ParseResult, ops opSet, right func() *ParseResult) *ParseResult {
	res := &ParseResult{}

	node := res.register(left())
	if res.Err != nil {
		return res
	}

	for ops.match(p.cur) {
		op := p.cur
		res.registerAdvancement()
		p.advance()

		rhs := res.register(right())
		if res.Err != nil {
			return res
		}
		node = &ast.InfixExpression{
			Left:  node,
			Op:    op,
			Right: rhs,
			Loc:   token.NewSpan(node.Span().Start, rhs.Span().End),
		}
	}

	return res.success(node)
}
