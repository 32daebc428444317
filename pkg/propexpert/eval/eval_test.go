package eval

import (
	"testing"

	"github.com/cognicore/propexpert/pkg/propexpert/ast"
	"github.com/cognicore/propexpert/pkg/propexpert/truth"
)

func lookupFrom(m map[byte]truth.Value) Lookup {
	return func(v byte) truth.Value {
		if val, ok := m[v]; ok {
			return val
		}
		return truth.Unknown
	}
}

func TestEvalFact(t *testing.T) {
	got := Eval(ast.Fact{Name: 'A'}, lookupFrom(map[byte]truth.Value{'A': truth.True}), nil)
	if got != truth.True {
		t.Errorf("got %v, want True", got)
	}
}

func TestEvalNot(t *testing.T) {
	got := Eval(ast.Unary{Op: ast.NOT, Child: ast.Fact{Name: 'A'}}, lookupFrom(map[byte]truth.Value{'A': truth.True}), nil)
	if got != truth.False {
		t.Errorf("got %v, want False", got)
	}
}

func TestEvalAndOrXor(t *testing.T) {
	m := map[byte]truth.Value{'A': truth.True, 'B': truth.False, 'C': truth.Unknown}
	lookup := lookupFrom(m)

	and := ast.Binary{Op: ast.AND, Left: ast.Fact{Name: 'A'}, Right: ast.Fact{Name: 'B'}}
	if got := Eval(and, lookup, nil); got != truth.False {
		t.Errorf("A+B: got %v, want False", got)
	}

	or := ast.Binary{Op: ast.OR, Left: ast.Fact{Name: 'A'}, Right: ast.Fact{Name: 'C'}}
	if got := Eval(or, lookup, nil); got != truth.True {
		t.Errorf("A|C: got %v, want True", got)
	}

	xor := ast.Binary{Op: ast.XOR, Left: ast.Fact{Name: 'B'}, Right: ast.Fact{Name: 'C'}}
	if got := Eval(xor, lookup, nil); got != truth.Unknown {
		t.Errorf("B^C: got %v, want Unknown", got)
	}
}

func TestEvalTrueRHSShortCircuits(t *testing.T) {
	// B | C is recorded as true_rhs even though B and C are individually
	// Unknown; evaluating it directly should return True.
	expr := ast.Binary{Op: ast.OR, Left: ast.Fact{Name: 'B'}, Right: ast.Fact{Name: 'C'}}
	lookup := lookupFrom(map[byte]truth.Value{})
	trueRHS := func(key string) bool { return key == expr.String() }

	if got := Eval(expr, lookup, trueRHS); got != truth.True {
		t.Errorf("got %v, want True via true_rhs reuse", got)
	}
}
