// Package memstore is an in-memory audit.Store, used by tests and by
// the CLI when run without a -audit-db flag.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/propexpert/pkg/propexpert/audit"
)

// Store is an in-memory implementation of audit.Store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]audit.Session
	order    []string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{sessions: make(map[string]audit.Session)}
}

// Close implements audit.Store.
func (s *Store) Close() error { return nil }

// RecordSession stores sess, keyed by its ID.
func (s *Store) RecordSession(ctx context.Context, sess audit.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sess.ID]; !exists {
		s.order = append(s.order, sess.ID)
	}
	s.sessions[sess.ID] = copySession(sess)
	return nil
}

// GetSession returns the session with the given ID, if present.
func (s *Store) GetSession(ctx context.Context, id string) (audit.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return audit.Session{}, false, nil
	}
	return copySession(sess), true, nil
}

// RecentSessions returns up to limit sessions, most recently started first.
func (s *Store) RecentSessions(ctx context.Context, limit int) ([]audit.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	out := make([]audit.Session, 0, len(s.sessions))
	for _, id := range s.order {
		out = append(out, copySession(s.sessions[id]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copySession(sess audit.Session) audit.Session {
	verdicts := make([]audit.Verdict, len(sess.Verdicts))
	copy(verdicts, sess.Verdicts)
	diagnostics := make([]string, len(sess.Diagnostics))
	copy(diagnostics, sess.Diagnostics)
	sess.Verdicts = verdicts
	sess.Diagnostics = diagnostics
	return sess
}
