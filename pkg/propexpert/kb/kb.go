// Package kb holds the knowledge base: the initial-true fact set, the
// ordered rule sequence, and the by-conclusion index the solver walks.
// It mirrors the store-package convention of the teacher repo (a plain
// struct built once by a Load function, treated as read-only afterward)
// rather than exposing a mutable API for callers to poke at.
package kb

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cognicore/propexpert/pkg/propexpert/ast"
	"github.com/cognicore/propexpert/pkg/propexpert/internalerr"
	"github.com/cognicore/propexpert/pkg/propexpert/parser"
)

// KnowledgeBase is the immutable result of parsing one input file: the
// initial-true set, the source-ordered rule sequence, and an index from
// conclusion variable to the rules that may conclude it.
type KnowledgeBase struct {
	InitialTrue  map[byte]bool
	Rules        []parser.Rule
	ByConclusion map[byte][]parser.Rule
	Queries      []byte
}

// Load parses the input-file grammar from r (spec.md §6): rule lines,
// exactly one `=` line, exactly one `?` line, comments and blank lines
// ignored, sections in that order.
func Load(r io.Reader) (*KnowledgeBase, error) {
	var rules []parser.Rule
	var initialTrue map[byte]bool
	var queries []byte
	sawFacts := false
	sawQueries := false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "="):
			if sawFacts {
				return nil, &internalerr.InputError{Reason: fmt.Sprintf("line %d: duplicate initial-facts line", lineNo)}
			}
			if sawQueries {
				return nil, &internalerr.InputError{Reason: fmt.Sprintf("line %d: initial-facts line must precede queries line", lineNo)}
			}
			sawFacts = true
			initialTrue = map[byte]bool{}
			for _, r := range line[1:] {
				if r < 'A' || r > 'Z' {
					return nil, &internalerr.InputError{Reason: fmt.Sprintf("line %d: initial fact %q is not A-Z", lineNo, r)}
				}
				initialTrue[byte(r)] = true
			}

		case strings.HasPrefix(line, "?"):
			if !sawFacts {
				return nil, &internalerr.InputError{Reason: fmt.Sprintf("line %d: queries line before initial-facts line", lineNo)}
			}
			if sawQueries {
				return nil, &internalerr.InputError{Reason: fmt.Sprintf("line %d: duplicate queries line", lineNo)}
			}
			sawQueries = true
			body := strings.TrimSpace(line[1:])
			if body == "" {
				return nil, &internalerr.InputError{Reason: fmt.Sprintf("line %d: queries line names no variables", lineNo)}
			}
			for _, r := range body {
				if r < 'A' || r > 'Z' {
					return nil, &internalerr.InputError{Reason: fmt.Sprintf("line %d: query %q is not A-Z", lineNo, r)}
				}
				queries = append(queries, byte(r))
			}

		default:
			if sawFacts {
				return nil, &internalerr.InputError{Reason: fmt.Sprintf("line %d: rule line after initial-facts line", lineNo)}
			}
			parsed, err := parser.ParseRule(line, lineNo)
			if err != nil {
				return nil, err
			}
			rules = append(rules, parsed...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if !sawFacts {
		return nil, &internalerr.InputError{Reason: "missing initial-facts line (a line starting with '=')"}
	}
	if !sawQueries {
		return nil, &internalerr.InputError{Reason: "missing queries line (a line starting with '?')"}
	}

	for i := range rules {
		rules[i].Index = i
	}

	byConclusion := map[byte][]parser.Rule{}
	for _, r := range rules {
		for _, v := range ast.Vars(r.Conclusion) {
			byConclusion[v] = append(byConclusion[v], r)
		}
	}

	return &KnowledgeBase{
		InitialTrue:  initialTrue,
		Rules:        rules,
		ByConclusion: byConclusion,
		Queries:      queries,
	}, nil
}

// SortedInitialTrue returns the initial-true variables in ascending
// order, for deterministic display.
func (kb *KnowledgeBase) SortedInitialTrue() []byte {
	out := make([]byte, 0, len(kb.InitialTrue))
	for v := range kb.InitialTrue {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WithInitialTrue returns a new KnowledgeBase sharing the same rule set
// but with a replaced initial-true set. Used by the interactive CLI's
// +X/-X commands, which mutate facts between runs rather than during
// one (spec.md §5, §9 "Interactive mutation") by producing a fresh
// immutable knowledge base instead of mutating this one in place.
func (kb *KnowledgeBase) WithInitialTrue(initialTrue map[byte]bool) *KnowledgeBase {
	return &KnowledgeBase{
		InitialTrue:  initialTrue,
		Rules:        kb.Rules,
		ByConclusion: kb.ByConclusion,
		Queries:      kb.Queries,
	}
}
