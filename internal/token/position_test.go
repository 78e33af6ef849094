package token

import "testing"

func TestPositionAdvance(t *testing.T) {
	pos := Position{File: "<test>", Text: "ab\ncé"}

	pos = pos.Advance('a')
	if pos.Idx != 1 || pos.Ln != 0 || pos.Col != 1 {
		t.Fatalf("after 'a': got idx=%d ln=%d col=%d", pos.Idx, pos.Ln, pos.Col)
	}

	pos = pos.Advance('b')
	pos = pos.Advance('\n')
	if pos.Idx != 3 || pos.Ln != 1 || pos.Col != 0 {
		t.Fatalf("after newline: got idx=%d ln=%d col=%d", pos.Idx, pos.Ln, pos.Col)
	}

	pos = pos.Advance('c')
	pos = pos.Advance('é') // two bytes, one column
	if pos.Idx != 6 || pos.Col != 2 {
		t.Fatalf("after 'é': got idx=%d col=%d", pos.Idx, pos.Col)
	}
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident    string
		expected TokenType
	}{
		{"VAR", KEYWORD},
		{"WHILE", KEYWORD},
		{"BREAK", KEYWORD},
		{"var", IDENTIFIER},
		{"foo", IDENTIFIER},
		{"VARX", IDENTIFIER},
	}

	for i, tt := range tests {
		if got := LookupIdent(tt.ident); got != tt.expected {
			t.Fatalf("tests[%d] - lookup %q wrong. expected=%q, got=%q",
				i, tt.ident, tt.expected, got)
		}
	}
}

func TestTokenMatches(t *testing.T) {
	tok := Token{Type: KEYWORD, Literal: "VAR"}
	if !tok.Matches(KEYWORD, "VAR") {
		t.Errorf("expected token to match KEYWORD VAR")
	}
	if tok.Matches(KEYWORD, "FOR") {
		t.Errorf("token should not match KEYWORD FOR")
	}
	if tok.Matches(IDENTIFIER, "VAR") {
		t.Errorf("token should not match IDENTIFIER VAR")
	}
}
