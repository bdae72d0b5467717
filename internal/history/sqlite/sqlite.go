// Package sqlite persists session history with the CGO-free modernc driver.
// Use ":memory:" as the path for an in-memory database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Psychloor/TimeTracker/internal/history"
)

type DB struct {
	db *sql.DB
}

// New opens (and creates if needed) the history database at path.
func New(path string) (*DB, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty sqlite path")
	}
	d, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// busy timeout helps with short concurrent locks
	_, _ = d.Exec("PRAGMA busy_timeout=3000;")
	return &DB{db: d}, nil
}

func (s *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_events(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			pid INTEGER NOT NULL,
			reason TEXT NULL,
			duration_seconds REAL NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			occurred_at TIMESTAMP NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_pid ON session_events(pid);`,
		`CREATE INDEX IF NOT EXISTS idx_session_events_occurred ON session_events(occurred_at);`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *DB) Close() error { return s.db.Close() }

// Send implements history.Sink.
func (s *DB) Send(ctx context.Context, e history.Event) error {
	var reason sql.NullString
	if e.Reason != "" {
		reason = sql.NullString{String: e.Reason, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_events(type, pid, reason, duration_seconds, started_at, occurred_at)
		VALUES(?, ?, ?, ?, ?, ?);`,
		string(e.Type), e.PID, reason, e.Duration.Seconds(), e.StartedAt.UTC(), e.OccurredAt.UTC())
	return err
}

// Recent returns up to limit events, most recent first.
func (s *DB) Recent(ctx context.Context, limit int) ([]history.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, pid, reason, duration_seconds, started_at, occurred_at
		FROM session_events
		ORDER BY id DESC
		LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []history.Event
	for rows.Next() {
		var (
			typ     string
			pid     int32
			reason  sql.NullString
			seconds float64
			started time.Time
			occ     time.Time
		)
		if err := rows.Scan(&typ, &pid, &reason, &seconds, &started, &occ); err != nil {
			return nil, err
		}
		out = append(out, history.Event{
			Type:       history.EventType(typ),
			PID:        pid,
			Reason:     reason.String,
			Duration:   time.Duration(seconds * float64(time.Second)),
			StartedAt:  started,
			OccurredAt: occ,
		})
	}
	return out, rows.Err()
}
