package diag

import (
	"strings"
	"testing"

	"parseflow/internal/token"
)

func pos(idx, ln, col int, text string) token.Position {
	return token.Position{Idx: idx, Ln: ln, Col: col, File: "<test>", Text: text}
}

func TestStringWithArrows(t *testing.T) {
	text := "1 / 0"
	got := StringWithArrows(text, pos(0, 0, 0, text), pos(5, 0, 5, text))

	expected := "1 / 0\n^^^^^"
	if got != expected {
		t.Fatalf("arrows wrong.\nexpected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestStringWithArrowsMidLine(t *testing.T) {
	text := "VAR a = b\nVAR c = 1"
	got := StringWithArrows(text, pos(8, 0, 8, text), pos(9, 0, 9, text))

	expected := "VAR a = b\n        ^"
	if got != expected {
		t.Fatalf("arrows wrong.\nexpected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestErrorAsString(t *testing.T) {
	text := "1 ! 2"
	err := NewExpectedChar(token.NewSpan(pos(2, 0, 2, text), pos(3, 0, 3, text)), "'=' (after '!')")

	rendered := err.AsString()
	for _, want := range []string{
		"Expected Character: '=' (after '!')",
		"File <test>, line 1",
		"1 ! 2",
		"  ^",
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("rendered error missing %q:\n%s", want, rendered)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	span := token.NewSpan(pos(0, 0, 0, "x"), pos(1, 0, 1, "x"))

	if err := NewIllegalChar(span, '$'); err.Kind != IllegalCharError || err.Msg != "'$'" {
		t.Errorf("illegal char error wrong: %+v", err)
	}
	if err := NewInvalidSyntax(span, "Expected ')'"); err.Kind != InvalidSyntaxError {
		t.Errorf("invalid syntax error wrong: %+v", err)
	}
}
