// Package graph builds a dependency graph over a knowledge base's facts
// and rules: which rules conclude a fact (in-edges) and which rules
// require it in their premise (out-edges). It is a read-only view used
// by `-dump-graph` diagnostics; the solver itself walks KnowledgeBase.ByConclusion directly
// and does not depend on this package. Grounded on the FactV/RuleV
// vertex shapes of the original Python expert system's graph module.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/propexpert/pkg/propexpert/ast"
	"github.com/cognicore/propexpert/pkg/propexpert/kb"
)

// FactVertex is one atomic proposition and the rules that touch it.
type FactVertex struct {
	Name     byte
	Initial  bool
	InRules  []int // indices of rules that conclude this fact
	OutRules []int // indices of rules that require this fact in their premise
}

// RuleVertex is one rule, with its premise/conclusion variables broken
// out for quick traversal.
type RuleVertex struct {
	Index      int
	Premise    ast.Node
	Conclusion ast.Node
	Text       string
	InFacts    []byte // variables read by Premise
	OutFacts   []byte // variables written by Conclusion
}

// Graph is the dependency graph over one knowledge base.
type Graph struct {
	Facts map[byte]*FactVertex
	Rules []*RuleVertex
}

// Build constructs the dependency graph for kbase. It does not mutate
// kbase; fact and rule vertices are independent copies describing the
// relationships already implied by kbase.Rules and kbase.ByConclusion.
func Build(kbase *kb.KnowledgeBase) *Graph {
	g := &Graph{Facts: map[byte]*FactVertex{}}

	ensure := func(name byte) *FactVertex {
		if fv, ok := g.Facts[name]; ok {
			return fv
		}
		fv := &FactVertex{Name: name, Initial: kbase.InitialTrue[name]}
		g.Facts[name] = fv
		return fv
	}

	for name := range kbase.InitialTrue {
		ensure(name)
	}

	g.Rules = make([]*RuleVertex, len(kbase.Rules))
	for _, r := range kbase.Rules {
		rv := &RuleVertex{
			Index:      r.Index,
			Premise:    r.Premise,
			Conclusion: r.Conclusion,
			Text:       r.Text,
			InFacts:    ast.Vars(r.Premise),
			OutFacts:   ast.Vars(r.Conclusion),
		}
		g.Rules[r.Index] = rv

		for _, v := range rv.InFacts {
			fv := ensure(v)
			fv.OutRules = append(fv.OutRules, r.Index)
		}
		for _, v := range rv.OutFacts {
			fv := ensure(v)
			fv.InRules = append(fv.InRules, r.Index)
		}
	}

	return g
}

// SortedFactNames returns every fact vertex name in ascending order, for
// deterministic iteration/display.
func (g *Graph) SortedFactNames() []byte {
	names := make([]byte, 0, len(g.Facts))
	for n := range g.Facts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Dump renders the graph as an indented text listing, used by the CLI's
// -dump-graph flag.
func (g *Graph) Dump() string {
	var b strings.Builder
	for _, name := range g.SortedFactNames() {
		fv := g.Facts[name]
		fmt.Fprintf(&b, "%c initial=%t in=%v out=%v\n", fv.Name, fv.Initial, fv.InRules, fv.OutRules)
	}
	for _, rv := range g.Rules {
		fmt.Fprintf(&b, "rule %d: %s  (reads %s, writes %s)\n",
			rv.Index, rv.Text, string(rv.InFacts), string(rv.OutFacts))
	}
	return b.String()
}
