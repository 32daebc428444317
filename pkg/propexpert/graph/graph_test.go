package graph

import (
	"strings"
	"testing"

	"github.com/cognicore/propexpert/pkg/propexpert/kb"
)

func load(t *testing.T, src string) *kb.KnowledgeBase {
	t.Helper()
	k, err := kb.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return k
}

func TestBuildTracksInAndOutRules(t *testing.T) {
	k := load(t, "A => B\nB => C\n=A\n?C\n")
	g := Build(k)

	a, ok := g.Facts['A']
	if !ok {
		t.Fatal("expected vertex for A")
	}
	if !a.Initial {
		t.Error("A should be marked initial")
	}
	if len(a.OutRules) != 1 || a.OutRules[0] != 0 {
		t.Errorf("A.OutRules = %v, want [0]", a.OutRules)
	}

	b, ok := g.Facts['B']
	if !ok {
		t.Fatal("expected vertex for B")
	}
	if len(b.InRules) != 1 || b.InRules[0] != 0 {
		t.Errorf("B.InRules = %v, want [0]", b.InRules)
	}
	if len(b.OutRules) != 1 || b.OutRules[0] != 1 {
		t.Errorf("B.OutRules = %v, want [1]", b.OutRules)
	}

	c, ok := g.Facts['C']
	if !ok {
		t.Fatal("expected vertex for C")
	}
	if len(c.InRules) != 1 || c.InRules[0] != 1 {
		t.Errorf("C.InRules = %v, want [1]", c.InRules)
	}
}

func TestBuildBiconditionalProducesTwoRuleVertices(t *testing.T) {
	k := load(t, "A + B <=> C\n=AB\n?C\n")
	g := Build(k)
	if len(g.Rules) != 2 {
		t.Fatalf("expected 2 rule vertices, got %d", len(g.Rules))
	}
	if len(g.Rules[0].InFacts) != 2 {
		t.Errorf("rule 0 should read A and B, got %v", g.Rules[0].InFacts)
	}
	if len(g.Rules[1].OutFacts) != 2 {
		t.Errorf("rule 1 should write A and B, got %v", g.Rules[1].OutFacts)
	}
}

func TestSortedFactNamesIsOrdered(t *testing.T) {
	k := load(t, "C => A\nA => B\n=C\n?B\n")
	g := Build(k)
	names := g.SortedFactNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestDumpContainsFactsAndRules(t *testing.T) {
	k := load(t, "A => B\n=A\n?B\n")
	g := Build(k)
	out := g.Dump()
	if !strings.Contains(out, "A initial=true") {
		t.Errorf("dump missing initial fact line: %q", out)
	}
	if !strings.Contains(out, "rule 0:") {
		t.Errorf("dump missing rule line: %q", out)
	}
}
