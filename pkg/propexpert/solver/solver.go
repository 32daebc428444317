// Package solver implements the backward-chaining proof search of
// spec.md §4.5: per-query recursive solving with memoization, cycle
// detection, contradiction detection, and disjunctive/XOR-conclusion
// handling. Its shape — a struct built once over an immutable knowledge
// base, with a Solve method returning both the verdict and its
// explanation trace — follows the teacher's
// inference.Engine convention, but the algorithm is backward chaining
// over three-valued logic rather than transitive closure over facts.
package solver

import (
	"fmt"

	"github.com/cognicore/propexpert/pkg/propexpert/ast"
	"github.com/cognicore/propexpert/pkg/propexpert/eval"
	"github.com/cognicore/propexpert/pkg/propexpert/kb"
	"github.com/cognicore/propexpert/pkg/propexpert/trace"
	"github.com/cognicore/propexpert/pkg/propexpert/truth"
)

// Contradiction records that a variable was independently proven both
// True and False during one solve session.
type Contradiction struct {
	Variable   byte
	TrueRules  []int
	FalseRules []int
}

// Result is the outcome of solving one query.
type Result struct {
	Variable       byte
	Value          truth.Value
	Trace          []trace.Event
	Cycles         []byte
	Contradictions []Contradiction
}

// Solver evaluates queries against an immutable knowledge base. It holds
// no mutable state itself; every Solve call opens a fresh session so
// that spec.md §4.6's "reset per query" requirement holds without the
// caller having to remember to reset anything.
type Solver struct {
	kb *kb.KnowledgeBase
}

// New creates a Solver over kbase. kbase is treated as read-only.
func New(kbase *kb.KnowledgeBase) *Solver {
	return &Solver{kb: kbase}
}

// Solve resolves the truth value of v, per spec.md §4.5.
func (s *Solver) Solve(v byte) Result {
	sess := &session{
		kb:      s.kb,
		memo:    map[byte]truth.Value{},
		path:    map[byte]bool{},
		cycles:  map[byte]bool{},
		trueRHS: map[string]bool{},
		rec:     trace.NewRecorder(v),
	}
	val := sess.solve(v)
	sess.rec.Finish()

	cycles := make([]byte, 0, len(sess.cycles))
	for c := range sess.cycles {
		cycles = append(cycles, c)
	}

	return Result{
		Variable:       v,
		Value:          val,
		Trace:          sess.rec.Events(),
		Cycles:         cycles,
		Contradictions: sess.contradictions,
	}
}

type session struct {
	kb             *kb.KnowledgeBase
	memo           map[byte]truth.Value
	path           map[byte]bool
	cycles         map[byte]bool
	trueRHS        map[string]bool
	contradictions []Contradiction
	rec            *trace.Recorder
}

func (sess *session) solve(v byte) truth.Value {
	// Step 1: initial facts are axioms.
	if sess.kb.InitialTrue[v] {
		sess.memo[v] = truth.True
		sess.rec.Record(trace.Event{Kind: trace.InitialFact, Variable: v, RuleIndex: -1,
			Detail: fmt.Sprintf("%c is an initial fact", v)})
		return truth.True
	}

	// Step 2: memoized.
	if val, ok := sess.memo[v]; ok {
		return val
	}

	// Step 3: cycle detection — v is already on the active recursion stack.
	if sess.path[v] {
		sess.cycles[v] = true
		sess.rec.Record(trace.Event{Kind: trace.CycleDetected, Variable: v, RuleIndex: -1,
			Detail: fmt.Sprintf("cycle detected while evaluating %c", v)})
		return truth.Unknown
	}

	sess.path[v] = true

	foundTrue, foundFalse, anyUnknown := false, false, false
	var trueRules, falseRules []int

	for _, rule := range sess.kb.ByConclusion[v] {
		premise := eval.Eval(rule.Premise, sess.lookup, sess.consultTrueRHS)

		if premise == truth.False {
			sess.rec.Record(trace.Event{Kind: trace.RuleSkipped, Variable: v, RuleIndex: rule.Index,
				Detail: fmt.Sprintf("rule %d premise is False", rule.Index)})
			continue
		}
		if premise == truth.Unknown {
			anyUnknown = true
			sess.rec.Record(trace.Event{Kind: trace.RuleSkipped, Variable: v, RuleIndex: rule.Index,
				Detail: fmt.Sprintf("rule %d premise is Unknown", rule.Index)})
			continue
		}

		// Premise is True: the conclusion, as a whole, holds.
		sess.trueRHS[rule.Conclusion.String()] = true

		switch {
		case guaranteesTrue(rule.Conclusion, v):
			foundTrue = true
			trueRules = append(trueRules, rule.Index)
			sess.rec.Record(trace.Event{Kind: trace.RuleFired, Variable: v, RuleIndex: rule.Index,
				Detail: fmt.Sprintf("rule %d ('%s') fires and sets %c True", rule.Index, rule.Text, v)})
		case guaranteesFalse(rule.Conclusion, v):
			foundFalse = true
			falseRules = append(falseRules, rule.Index)
			sess.rec.Record(trace.Event{Kind: trace.RuleFired, Variable: v, RuleIndex: rule.Index,
				Detail: fmt.Sprintf("rule %d ('%s') fires and sets %c False", rule.Index, rule.Text, v)})
		default:
			// Disjunctive/XOR conclusion: fires, but does not by itself
			// determine v.
			anyUnknown = true
			sess.rec.Record(trace.Event{Kind: trace.RuleFired, Variable: v, RuleIndex: rule.Index,
				Detail: fmt.Sprintf("rule %d ('%s') fires but does not uniquely determine %c", rule.Index, rule.Text, v)})
		}
	}

	delete(sess.path, v)

	var verdict truth.Value
	switch {
	case foundTrue && foundFalse:
		sess.contradictions = append(sess.contradictions, Contradiction{Variable: v, TrueRules: trueRules, FalseRules: falseRules})
		sess.rec.Record(trace.Event{Kind: trace.ContradictionDetected, Variable: v, RuleIndex: -1,
			Detail: fmt.Sprintf("contradiction on %c: rules %v set it True, rules %v set it False", v, trueRules, falseRules)})
		verdict = truth.Unknown
	case foundTrue:
		verdict = truth.True
	case foundFalse:
		verdict = truth.False
	case anyUnknown:
		verdict = truth.Unknown
	default:
		sess.rec.Record(trace.Event{Kind: trace.ClosedWorldDefault, Variable: v, RuleIndex: -1,
			Detail: fmt.Sprintf("no rule proved %c; closed-world default False", v)})
		verdict = truth.False
	}

	sess.memo[v] = verdict
	return verdict
}

func (sess *session) lookup(v byte) truth.Value {
	return sess.solve(v)
}

func (sess *session) consultTrueRHS(key string) bool {
	return sess.trueRHS[key]
}

// guaranteesTrue reports whether conclusion, as a whole, guarantees that
// v is True: a bare Fact matching v, or an AND node where either
// conjunct guarantees it (conjunctions distribute the asserted polarity
// across both children, per spec.md §4.5). OR/XOR never guarantee a
// specific sub-fact.
func guaranteesTrue(conclusion ast.Node, v byte) bool {
	switch n := conclusion.(type) {
	case ast.Fact:
		return n.Name == v
	case ast.Binary:
		if n.Op == ast.AND {
			return guaranteesTrue(n.Left, v) || guaranteesTrue(n.Right, v)
		}
	}
	return false
}

// guaranteesFalse reports whether conclusion, as a whole, guarantees
// that v is False: a NOT of a bare Fact matching v, or an AND node
// where either conjunct guarantees it.
func guaranteesFalse(conclusion ast.Node, v byte) bool {
	switch n := conclusion.(type) {
	case ast.Unary:
		if n.Op == ast.NOT {
			if f, ok := n.Child.(ast.Fact); ok {
				return f.Name == v
			}
		}
	case ast.Binary:
		if n.Op == ast.AND {
			return guaranteesFalse(n.Left, v) || guaranteesFalse(n.Right, v)
		}
	}
	return false
}

