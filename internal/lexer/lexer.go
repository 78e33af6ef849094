package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"parseflow/internal/diag"
	"parseflow/internal/token"
)

type Lexer struct {
	input string
	pos   token.Position
	ch    rune // current rune under examination; 0 means EOF
}

func New(file, input string) *Lexer {
	l := &Lexer{
		input: input,
		pos:   token.Position{File: file, Text: input},
	}
	if len(input) > 0 {
		r, _ := utf8.DecodeRuneInString(input)
		l.ch = r
	}
	return l
}

// Tokens lexes the whole input. The returned slice always ends with an EOF
// token; on failure the token slice is nil and the error carries the span of
// the offending character.
func (l *Lexer) Tokens() ([]token.Token, *diag.Error) {
	var toks []token.Token

	for l.ch != 0 {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.advance()
		case l.ch == '#':
			l.skipComment()
		case l.ch == '\n' || l.ch == ';':
			toks = append(toks, l.single(token.NEWLINE))
		case isDigit(l.ch):
			toks = append(toks, l.readNumber())
		case isLetter(l.ch):
			toks = append(toks, l.readIdentifier())
		case l.ch == '"':
			tok, err := l.readString()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case l.ch == '+':
			toks = append(toks, l.single(token.PLUS))
		case l.ch == '-':
			toks = append(toks, l.readMinusOrArrow())
		case l.ch == '*':
			toks = append(toks, l.single(token.MUL))
		case l.ch == '/':
			toks = append(toks, l.single(token.DIV))
		case l.ch == '^':
			toks = append(toks, l.single(token.POW))
		case l.ch == '(':
			toks = append(toks, l.single(token.LPAREN))
		case l.ch == ')':
			toks = append(toks, l.single(token.RPAREN))
		case l.ch == '[':
			toks = append(toks, l.single(token.LSQUARE))
		case l.ch == ']':
			toks = append(toks, l.single(token.RSQUARE))
		case l.ch == ',':
			toks = append(toks, l.single(token.COMMA))
		case l.ch == '!':
			tok, err := l.readNotEquals()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case l.ch == '=':
			toks = append(toks, l.compound(token.EQ, '=', token.EE))
		case l.ch == '<':
			toks = append(toks, l.compound(token.LT, '=', token.LTE))
		case l.ch == '>':
			toks = append(toks, l.compound(token.GT, '=', token.GTE))
		default:
			start := l.pos
			ch := l.ch
			l.advance()
			return nil, diag.NewIllegalChar(token.NewSpan(start, l.pos), ch)
		}
	}

	toks = append(toks, token.Token{Type: token.EOF, Span: token.NewSpan(l.pos, l.pos)})
	return toks, nil
}

func (l *Lexer) advance() {
	l.pos = l.pos.Advance(l.ch)
	if l.pos.Idx >= len(l.input) {
		l.ch = 0
		return
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos.Idx:])
	l.ch = r
}

func (l *Lexer) peek() rune {
	next := l.pos.Idx + utf8.RuneLen(l.ch)
	if next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return r
}

// single consumes the current rune as a one-character token.
func (l *Lexer) single(typ token.TokenType) token.Token {
	start := l.pos
	lit := string(l.ch)
	l.advance()
	return token.Token{Type: typ, Literal: lit, Span: token.NewSpan(start, l.pos)}
}

// compound consumes one rune, and a second when it equals next.
func (l *Lexer) compound(typ token.TokenType, next rune, compoundType token.TokenType) token.Token {
	start := l.pos
	lit := string(l.ch)
	l.advance()
	if l.ch == next {
		lit += string(l.ch)
		typ = compoundType
		l.advance()
	}
	return token.Token{Type: typ, Literal: lit, Span: token.NewSpan(start, l.pos)}
}

func (l *Lexer) readMinusOrArrow() token.Token {
	start := l.pos
	lit := string(l.ch)
	typ := token.TokenType(token.MINUS)
	l.advance()
	if l.ch == '>' {
		lit += string(l.ch)
		typ = token.ARROW
		l.advance()
	}
	return token.Token{Type: typ, Literal: lit, Span: token.NewSpan(start, l.pos)}
}

func (l *Lexer) readNotEquals() (token.Token, *diag.Error) {
	start := l.pos
	l.advance()
	if l.ch != '=' {
		return token.Token{}, diag.NewExpectedChar(token.NewSpan(start, l.pos), "'=' (after '!')")
	}
	l.advance()
	return token.Token{Type: token.NE, Literal: "!=", Span: token.NewSpan(start, l.pos)}, nil
}

// readNumber consumes a greedy digit run; a single '.' makes it a FLOAT.
func (l *Lexer) readNumber() token.Token {
	start := l.pos
	dots := 0
	var lit strings.Builder
	for isDigit(l.ch) || (l.ch == '.' && dots == 0) {
		if l.ch == '.' {
			dots++
		}
		lit.WriteRune(l.ch)
		l.advance()
	}
	typ := token.TokenType(token.INT)
	if dots > 0 {
		typ = token.FLOAT
	}
	return token.Token{Type: typ, Literal: lit.String(), Span: token.NewSpan(start, l.pos)}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.advance()
	}
	lit := l.input[start.Idx:l.pos.Idx]
	return token.Token{Type: token.LookupIdent(lit), Literal: lit, Span: token.NewSpan(start, l.pos)}
}

func (l *Lexer) readString() (token.Token, *diag.Error) {
	start := l.pos
	l.advance() // consume the opening "

	var value strings.Builder
	for l.ch != '"' {
		if l.ch == 0 {
			return token.Token{}, diag.NewExpectedChar(token.NewSpan(start, l.pos), "'\"' (string was never terminated)")
		}
		if l.ch == '\\' {
			l.advance()
			switch l.ch {
			case 'n':
				value.WriteRune('\n')
			case 't':
				value.WriteRune('\t')
			case 0:
				return token.Token{}, diag.NewExpectedChar(token.NewSpan(start, l.pos), "'\"' (string was never terminated)")
			default:
				value.WriteRune(l.ch)
			}
			l.advance()
			continue
		}
		value.WriteRune(l.ch)
		l.advance()
	}
	l.advance() // consume the closing "

	return token.Token{Type: token.STRING, Literal: value.String(), Span: token.NewSpan(start, l.pos)}, nil
}

// skipComment runs to the end of the line without consuming the newline, so a
// comment-only line still emits a NEWLINE token.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.advance()
	}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
