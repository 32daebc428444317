package parser

import (
	"strings"

	"github.com/cognicore/propexpert/pkg/propexpert/ast"
	"github.com/cognicore/propexpert/pkg/propexpert/internalerr"
	"github.com/cognicore/propexpert/pkg/propexpert/lexer"
)

// Rule is a single (premise, conclusion) pair produced by parsing one
// rule line. Text carries the original line for trace/export output.
// Index is the rule's position in the knowledge base's source-ordered
// rule sequence; it is set by kb.Load once all rules (including
// biconditional expansions) are collected, since a rule doesn't know its
// global position while it is still being parsed in isolation.
type Rule struct {
	Premise    ast.Node
	Conclusion ast.Node
	Text       string
	Index      int
}

// ParseRule parses one rule line (with `<=>` detected before `=>`, per
// spec.md §4.3). A `<=>` line yields two Rules, (L,R) then (R,L); a `=>`
// line yields one. It is an error for a line to contain zero or more
// than one top-level implication connective.
func ParseRule(line string, lineNo int) ([]Rule, error) {
	tokens, err := lexer.Lex(line, lineNo)
	if err != nil {
		return nil, err
	}

	var iffAt, impliesAt, connectives int
	iffAt, impliesAt = -1, -1
	for i, t := range tokens {
		switch t.Type {
		case lexer.IFF:
			iffAt = i
			connectives++
		case lexer.IMPLIES:
			impliesAt = i
			connectives++
		}
	}
	if connectives != 1 {
		return nil, &internalerr.ParseError{Line: lineNo, Reason: "rule line must contain exactly one implication connective (=> or <=>)"}
	}

	text := strings.TrimSpace(line)
	if iffAt >= 0 {
		left, right := tokens[:iffAt], tokens[iffAt+1:]
		if len(left) == 0 || len(right) == 0 {
			return nil, &internalerr.ParseError{Line: lineNo, Reason: "empty side of <=>"}
		}
		l, err := ParseExpr(left)
		if err != nil {
			return nil, err
		}
		r, err := ParseExpr(right)
		if err != nil {
			return nil, err
		}
		return []Rule{
			{Premise: l, Conclusion: r, Text: text},
			{Premise: r, Conclusion: l, Text: text},
		}, nil
	}

	left, right := tokens[:impliesAt], tokens[impliesAt+1:]
	if len(left) == 0 || len(right) == 0 {
		return nil, &internalerr.ParseError{Line: lineNo, Reason: "empty side of =>"}
	}
	l, err := ParseExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := ParseExpr(right)
	if err != nil {
		return nil, err
	}
	return []Rule{{Premise: l, Conclusion: r, Text: text}}, nil
}
