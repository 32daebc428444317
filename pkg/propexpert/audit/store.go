// Package audit persists a record of every CLI session: which
// knowledge-base file was run, what initial facts and queries it used,
// and the verdicts and diagnostics the solver produced. It mirrors the
// teacher's store package shape — a narrow Store interface with a
// SQLite-backed implementation and an in-memory test double — but
// trades the teacher's document/token/card schema for one session
// record per run of the expert system.
package audit

import (
	"context"
	"time"
)

// Store persists and retrieves expert-system session records.
type Store interface {
	Close() error

	RecordSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, bool, error)
	RecentSessions(ctx context.Context, limit int) ([]Session, error)
}

// Verdict is one query's solved value, recorded for audit purposes.
type Verdict struct {
	Variable string // single-letter fact name, stored as a string for portability
	Value    string // truth.Value.String()
}

// Session is one run of the propexpert CLI against one knowledge-base
// file.
type Session struct {
	ID           string
	StartedAt    time.Time
	InputFile    string
	InitialFacts string // e.g. "AB" — the sorted initial-true set
	Verdicts     []Verdict
	Diagnostics  []string // cycle/contradiction summaries, one line each
}
