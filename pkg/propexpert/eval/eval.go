// Package eval implements the three-valued evaluator of spec.md §4.4:
// pure evaluation of an expression tree given a lookup function for
// variable values, plus the "composite RHS reuse" hook of §4.5/§4.9 that
// lets the solver short-circuit a whole disjunctive/XOR conclusion once
// it has fired.
package eval

import (
	"github.com/cognicore/propexpert/pkg/propexpert/ast"
	"github.com/cognicore/propexpert/pkg/propexpert/truth"
)

// Lookup resolves the current truth value of a variable, invoking the
// solver recursively as needed.
type Lookup func(variable byte) truth.Value

// TrueRHS reports whether the structural key of a composite expression
// (as produced by ast.Node.String) has already been proven True as a
// whole, per spec.md's true_rhs mechanism.
type TrueRHS func(key string) bool

// Eval evaluates expr under lookup, consulting trueRHS (which may be nil)
// before recursing into any node so that a previously-fired disjunctive
// or XOR conclusion can be reused as True even while its sub-variables
// are still Unknown.
func Eval(expr ast.Node, lookup Lookup, trueRHS TrueRHS) truth.Value {
	if trueRHS != nil && trueRHS(expr.String()) {
		return truth.True
	}

	switch n := expr.(type) {
	case ast.Fact:
		return lookup(n.Name)
	case ast.Unary:
		return truth.Not(Eval(n.Child, lookup, trueRHS))
	case ast.Binary:
		left := Eval(n.Left, lookup, trueRHS)
		right := Eval(n.Right, lookup, trueRHS)
		switch n.Op {
		case ast.AND:
			return truth.And(left, right)
		case ast.OR:
			return truth.Or(left, right)
		case ast.XOR:
			return truth.Xor(left, right)
		}
	}
	panic("eval: unreachable node type")
}
