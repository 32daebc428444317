// Package parser implements the shunting-yard expression parser and the
// rule-line splitter described in spec.md §4.2-§4.3.
package parser

import (
	"fmt"

	"github.com/cognicore/propexpert/pkg/propexpert/ast"
	"github.com/cognicore/propexpert/pkg/propexpert/internalerr"
	"github.com/cognicore/propexpert/pkg/propexpert/lexer"
)

// precedence and associativity, per spec.md §4.2. Higher binds tighter.
var precedence = map[lexer.TokenType]int{
	lexer.NOT: 4,
	lexer.AND: 3,
	lexer.XOR: 2,
	lexer.OR:  1,
}

var rightAssoc = map[lexer.TokenType]bool{
	lexer.NOT: true,
}

// ParseExpr runs the shunting-yard algorithm over a token sequence
// containing no IMPLIES/IFF/QUERY_MARK/FACTS_MARK tokens, returning the
// root expression node.
func ParseExpr(tokens []lexer.Token) (ast.Node, error) {
	var output []ast.Node
	var ops []lexer.Token

	pop := func() error {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if op.Type == lexer.NOT {
			if len(output) < 1 {
				return &internalerr.ParseError{Line: op.Line, Reason: "NOT with no operand"}
			}
			child := output[len(output)-1]
			output = output[:len(output)-1]
			output = append(output, ast.Unary{Op: ast.NOT, Child: child})
			return nil
		}
		if len(output) < 2 {
			return &internalerr.ParseError{Line: op.Line, Reason: fmt.Sprintf("%s with insufficient operands", op.Value)}
		}
		right := output[len(output)-1]
		left := output[len(output)-2]
		output = output[:len(output)-2]
		output = append(output, ast.Binary{Op: binOp(op.Type), Left: left, Right: right})
		return nil
	}

	lastWasOperand := false
	for _, tok := range tokens {
		switch tok.Type {
		case lexer.FACT:
			if lastWasOperand {
				return nil, &internalerr.ParseError{Line: tok.Line, Reason: "two consecutive facts"}
			}
			output = append(output, ast.Fact{Name: tok.Value[0]})
			lastWasOperand = true
		case lexer.NOT:
			ops = append(ops, tok)
			lastWasOperand = false
		case lexer.AND, lexer.OR, lexer.XOR:
			for len(ops) > 0 && ops[len(ops)-1].Type != lexer.LPAREN && shouldPop(ops[len(ops)-1].Type, tok.Type) {
				if err := pop(); err != nil {
					return nil, err
				}
			}
			ops = append(ops, tok)
			lastWasOperand = false
		case lexer.LPAREN:
			if lastWasOperand {
				return nil, &internalerr.ParseError{Line: tok.Line, Reason: "operand followed by '(' with no operator"}
			}
			ops = append(ops, tok)
			lastWasOperand = false
		case lexer.RPAREN:
			found := false
			for len(ops) > 0 {
				if ops[len(ops)-1].Type == lexer.LPAREN {
					found = true
					break
				}
				if err := pop(); err != nil {
					return nil, err
				}
			}
			if !found {
				return nil, &internalerr.ParseError{Line: tok.Line, Reason: "unbalanced parentheses"}
			}
			ops = ops[:len(ops)-1] // discard LPAREN
			lastWasOperand = true
		default:
			return nil, &internalerr.ParseError{Line: tok.Line, Reason: fmt.Sprintf("unexpected token %s in expression", tok.Type)}
		}
	}

	for len(ops) > 0 {
		if ops[len(ops)-1].Type == lexer.LPAREN || ops[len(ops)-1].Type == lexer.RPAREN {
			return nil, &internalerr.ParseError{Reason: "unbalanced parentheses at end of expression"}
		}
		if err := pop(); err != nil {
			return nil, err
		}
	}

	if len(output) != 1 {
		return nil, &internalerr.ParseError{Reason: "expression does not reduce to a single node"}
	}
	return output[0], nil
}

func shouldPop(top, incoming lexer.TokenType) bool {
	topPrec, ok := precedence[top]
	if !ok {
		return false
	}
	incPrec := precedence[incoming]
	if rightAssoc[top] {
		return topPrec > incPrec
	}
	return topPrec >= incPrec
}

func binOp(t lexer.TokenType) ast.Op {
	switch t {
	case lexer.AND:
		return ast.AND
	case lexer.OR:
		return ast.OR
	case lexer.XOR:
		return ast.XOR
	default:
		panic("binOp: not a binary token")
	}
}
