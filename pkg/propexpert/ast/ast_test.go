package ast

import (
	"reflect"
	"testing"
)

func TestString(t *testing.T) {
	// (A+B)|!C
	n := Binary{
		Op:   OR,
		Left: Binary{Op: AND, Left: Fact{'A'}, Right: Fact{'B'}},
		Right: Unary{
			Op:    NOT,
			Child: Fact{'C'},
		},
	}
	want := "((A+B)|!C)"
	if got := n.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDoubleNegation(t *testing.T) {
	n := Unary{Op: NOT, Child: Unary{Op: NOT, Child: Fact{'A'}}}
	if got := n.String(); got != "!!A" {
		t.Errorf("String() = %q, want !!A", got)
	}
}

func TestVars(t *testing.T) {
	n := Binary{Op: AND, Left: Fact{'A'}, Right: Binary{Op: OR, Left: Fact{'B'}, Right: Fact{'A'}}}
	got := Vars(n)
	want := []byte{'A', 'B'}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Vars() = %v, want %v", got, want)
	}
}
