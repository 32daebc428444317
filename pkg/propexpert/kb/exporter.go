package kb

import (
	"context"
	"fmt"
	"strings"
)

// RuleWriter persists a rendered knowledge base to a destination (file,
// stdout, etc.), following the same seam as the teacher's maintenance
// package writers.
type RuleWriter interface {
	WriteRules(ctx context.Context, content string) error
}

// Exporter renders a loaded knowledge base back to the canonical
// rule-file grammar (spec.md §6): one line per rule, then the `=` line,
// then the `?` line. Because biconditionals are expanded to two rules
// at parse time, a round-tripped `<=>` line is rendered as two `=>`
// lines; that is the documented, lossy-but-equivalent behaviour.
type Exporter struct {
	Writer RuleWriter
}

// Export renders kb and hands the result to e.Writer.
func (e *Exporter) Export(ctx context.Context, kb *KnowledgeBase) error {
	if e.Writer == nil {
		return fmt.Errorf("rule exporter: nil writer")
	}
	var b strings.Builder
	for _, r := range kb.Rules {
		fmt.Fprintf(&b, "%s => %s\n", r.Premise.String(), r.Conclusion.String())
	}
	b.WriteByte('=')
	for _, v := range kb.SortedInitialTrue() {
		b.WriteByte(v)
	}
	b.WriteByte('\n')
	b.WriteByte('?')
	for _, v := range kb.Queries {
		b.WriteByte(v)
	}
	b.WriteByte('\n')
	return e.Writer.WriteRules(ctx, b.String())
}
