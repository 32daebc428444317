// Package sqlite is the SQLite-backed audit.Store, grounded on the
// teacher's store/sqlite package (WAL mode, foreign_keys on, a schema
// created on open) but with the document/token/card schema replaced by
// one session record per propexpert run.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/propexpert/pkg/propexpert/audit"
)

type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database at path with WAL mode and foreign keys
// enabled, creating the audit schema if it does not already exist.
func Open(ctx context.Context, path string) (audit.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	input_file TEXT NOT NULL,
	initial_facts TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_verdicts (
	session_id TEXT NOT NULL,
	variable TEXT NOT NULL,
	value TEXT NOT NULL,
	FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS session_diagnostics (
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	detail TEXT NOT NULL,
	FOREIGN KEY(session_id) REFERENCES sessions(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) RecordSession(ctx context.Context, sess audit.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO sessions (id, started_at, input_file, initial_facts)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	started_at=excluded.started_at,
	input_file=excluded.input_file,
	initial_facts=excluded.initial_facts;
`, sess.ID, sess.StartedAt.UTC().Format(timeLayout), sess.InputFile, sess.InitialFacts); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_verdicts WHERE session_id=?`, sess.ID); err != nil {
		return err
	}
	for _, v := range sess.Verdicts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_verdicts (session_id, variable, value) VALUES (?, ?, ?)`,
			sess.ID, v.Variable, v.Value); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_diagnostics WHERE session_id=?`, sess.ID); err != nil {
		return err
	}
	for i, d := range sess.Diagnostics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_diagnostics (session_id, seq, detail) VALUES (?, ?, ?)`,
			sess.ID, i, d); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) GetSession(ctx context.Context, id string) (audit.Session, bool, error) {
	var sess audit.Session
	var started string
	err := s.db.QueryRowContext(ctx, `
SELECT id, started_at, input_file, initial_facts FROM sessions WHERE id = ?;
`, id).Scan(&sess.ID, &started, &sess.InputFile, &sess.InitialFacts)
	if err == sql.ErrNoRows {
		return audit.Session{}, false, nil
	}
	if err != nil {
		return audit.Session{}, false, err
	}
	sess.StartedAt, err = parseTime(started)
	if err != nil {
		return audit.Session{}, false, err
	}

	sess.Verdicts, err = s.loadVerdicts(ctx, id)
	if err != nil {
		return audit.Session{}, false, err
	}
	sess.Diagnostics, err = s.loadDiagnostics(ctx, id)
	if err != nil {
		return audit.Session{}, false, err
	}
	return sess, true, nil
}

func (s *sqliteStore) RecentSessions(ctx context.Context, limit int) ([]audit.Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id FROM sessions ORDER BY started_at DESC LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]audit.Session, 0, len(ids))
	for _, id := range ids {
		sess, ok, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			sessions = append(sessions, sess)
		}
	}
	return sessions, nil
}

func (s *sqliteStore) loadVerdicts(ctx context.Context, id string) ([]audit.Verdict, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT variable, value FROM session_verdicts WHERE session_id=?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var verdicts []audit.Verdict
	for rows.Next() {
		var v audit.Verdict
		if err := rows.Scan(&v.Variable, &v.Value); err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, rows.Err()
}

func (s *sqliteStore) loadDiagnostics(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT detail FROM session_diagnostics WHERE session_id=? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const timeLayout = time.RFC3339Nano

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
