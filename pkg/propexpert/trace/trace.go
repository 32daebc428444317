// Package trace records the explanation trace spec.md §6 requires: which
// rules fired, which were skipped, and which cycles/contradictions were
// encountered while solving one query. Events are also mirrored into a
// golang.org/x/net/trace.EventLog, the same event-log primitive the
// teacher pulls in for its HTTP-facing services — here consumed purely
// in-process, since the core stays synchronous and I/O-free (spec.md §5).
package trace

import (
	"fmt"

	xtrace "golang.org/x/net/trace"
)

// EventKind classifies one recorded trace event.
type EventKind int

const (
	InitialFact EventKind = iota
	RuleFired
	RuleSkipped
	CycleDetected
	ContradictionDetected
	ClosedWorldDefault
)

func (k EventKind) String() string {
	switch k {
	case InitialFact:
		return "initial-fact"
	case RuleFired:
		return "rule-fired"
	case RuleSkipped:
		return "rule-skipped"
	case CycleDetected:
		return "cycle"
	case ContradictionDetected:
		return "contradiction"
	case ClosedWorldDefault:
		return "closed-world-default"
	default:
		return "unknown"
	}
}

// Event is one step of the explanation trace for a single solved
// variable.
type Event struct {
	Kind      EventKind
	Variable  byte
	RuleIndex int // -1 when not associated with a specific rule
	Detail    string
}

func (e Event) String() string {
	return fmt.Sprintf("[%s] %c: %s", e.Kind, e.Variable, e.Detail)
}

// Recorder accumulates events for one solve session (one top-level
// query, per spec.md §4.6 "reset per query") and forwards them to an
// x/net/trace event log so solver internals are inspectable the way the
// teacher's request-scoped event logs are.
type Recorder struct {
	events []Event
	evLog  xtrace.EventLog
}

// NewRecorder starts a Recorder for the given queried variable.
func NewRecorder(queried byte) *Recorder {
	return &Recorder{
		evLog: xtrace.NewEventLog("propexpert.solve", string(queried)),
	}
}

// Record appends an event and mirrors it into the underlying event log.
func (r *Recorder) Record(e Event) {
	r.events = append(r.events, e)
	if e.Kind == ContradictionDetected || e.Kind == CycleDetected {
		r.evLog.Errorf("%s", e.String())
		return
	}
	r.evLog.Printf("%s", e.String())
}

// Events returns the accumulated events in recorded order.
func (r *Recorder) Events() []Event {
	return r.events
}

// Finish closes the underlying event log. Call once the query is fully
// resolved.
func (r *Recorder) Finish() {
	r.evLog.Finish()
}
