package parser

import (
	"errors"
	"testing"

	"github.com/cognicore/propexpert/pkg/propexpert/internalerr"
	"github.com/cognicore/propexpert/pkg/propexpert/lexer"
)

func parseStr(t *testing.T, s string) string {
	t.Helper()
	toks, err := lexer.Lex(s, 1)
	if err != nil {
		t.Fatalf("lex(%q): %v", s, err)
	}
	n, err := ParseExpr(toks)
	if err != nil {
		t.Fatalf("parse(%q): %v", s, err)
	}
	return n.String()
}

func TestPrecedence(t *testing.T) {
	// A + B | C should parse as (A+B)|C — AND binds tighter than OR.
	got := parseStr(t, "A + B | C")
	want := "((A+B)|C)"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestXorBetweenAndOr(t *testing.T) {
	// A + B ^ C | D  =>  ((A+B)^C)|D
	got := parseStr(t, "A + B ^ C | D")
	want := "(((A+B)^C)|D)"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParens(t *testing.T) {
	got := parseStr(t, "A + (B | C)")
	want := "(A+(B|C))"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestDoubleNot(t *testing.T) {
	got := parseStr(t, "!!A")
	want := "!!A"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNotBindsTighterThanAnd(t *testing.T) {
	got := parseStr(t, "!A + B")
	want := "(!A+B)"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestMismatchedParens(t *testing.T) {
	toks, _ := lexer.Lex("(A + B", 1)
	_, err := ParseExpr(toks)
	if !errors.Is(err, internalerr.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestUnbalancedClosingParen(t *testing.T) {
	toks, _ := lexer.Lex("A + B)", 1)
	_, err := ParseExpr(toks)
	if !errors.Is(err, internalerr.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestConsecutiveFacts(t *testing.T) {
	toks, _ := lexer.Lex("A B", 1)
	_, err := ParseExpr(toks)
	if !errors.Is(err, internalerr.ErrParse) {
		t.Fatalf("expected ErrParse for consecutive facts, got %v", err)
	}
}

func TestMissingOperand(t *testing.T) {
	toks, _ := lexer.Lex("A +", 1)
	_, err := ParseExpr(toks)
	if !errors.Is(err, internalerr.ErrParse) {
		t.Fatalf("expected ErrParse for missing operand, got %v", err)
	}
}

func TestLeftAssociativity(t *testing.T) {
	// A | B | C should be (A|B)|C, not A|(B|C) - matters for the string form.
	got := parseStr(t, "A | B | C")
	want := "((A|B)|C)"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
