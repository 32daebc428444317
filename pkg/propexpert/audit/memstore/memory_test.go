package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cognicore/propexpert/pkg/propexpert/audit"
)

func TestRecordAndGetSession(t *testing.T) {
	s := New()
	ctx := context.Background()

	sess := audit.Session{
		ID:           "01J000000000000000000000",
		StartedAt:    time.Now(),
		InputFile:    "rules.txt",
		InitialFacts: "AB",
		Verdicts:     []audit.Verdict{{Variable: "C", Value: "True"}},
		Diagnostics:  []string{"cycle detected on B"},
	}

	if err := s.RecordSession(ctx, sess); err != nil {
		t.Fatalf("RecordSession: %v", err)
	}

	got, ok, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !ok {
		t.Fatal("expected session to be found")
	}
	if got.InputFile != sess.InputFile || len(got.Verdicts) != 1 {
		t.Errorf("got %+v, want match for %+v", got, sess)
	}
}

func TestGetSessionMissing(t *testing.T) {
	s := New()
	_, ok, err := s.GetSession(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing session")
	}
}

func TestRecentSessionsOrderedNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		s.RecordSession(ctx, audit.Session{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	recent, err := s.RecentSessions(ctx, 2)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(recent))
	}
	if recent[0].ID != "c" || recent[1].ID != "b" {
		t.Errorf("expected [c b], got [%s %s]", recent[0].ID, recent[1].ID)
	}
}

func TestRecordSessionOverwritesByID(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.RecordSession(ctx, audit.Session{ID: "x", InputFile: "first.txt"})
	s.RecordSession(ctx, audit.Session{ID: "x", InputFile: "second.txt"})

	got, ok, _ := s.GetSession(ctx, "x")
	if !ok {
		t.Fatal("expected session x")
	}
	if got.InputFile != "second.txt" {
		t.Errorf("InputFile = %q, want second.txt", got.InputFile)
	}

	recent, _ := s.RecentSessions(ctx, 10)
	if len(recent) != 1 {
		t.Errorf("expected overwrite to not duplicate entries, got %d", len(recent))
	}
}
