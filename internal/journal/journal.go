// Package journal keeps a SQLite log of the actions handmouse dispatched,
// one session per run. It is written for diagnostics and never read back
// by the engine.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/handmouse/internal/action"
	"github.com/ayusman/handmouse/internal/engine"
	"github.com/ayusman/handmouse/internal/gesture"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested session does not exist.
var ErrNotFound = errors.New("not found")

// Entry statuses.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Session is one engine run.
type Session struct {
	ID        string
	Source    string
	StartedAt time.Time
	EndedAt   *time.Time
	Frames    int
}

// Entry is one journaled action.
type Entry struct {
	Frame   int
	Action  action.Action
	Gesture string
	Status  string
	Error   string
	At      time.Time
}

// Journal records the actions of a single session.
type Journal struct {
	db      *sql.DB
	path    string
	session string
	frames  int
	logger  zerolog.Logger
}

// New opens (or creates) the database at dbPath, runs migrations and starts
// a new session tagged with source.
func New(dbPath, source string, logger zerolog.Logger) (*Journal, error) {
	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	j := &Journal{
		db:      db,
		path:    dbPath,
		session: uuid.NewString(),
		logger:  logger.With().Str("component", "journal").Logger(),
	}

	if err := j.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := db.Exec(
		`INSERT INTO sessions (id, source, started_at) VALUES (?, ?, ?)`,
		j.session, source, time.Now(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	j.logger.Debug().Str("session", j.session).Str("path", dbPath).Msg("journal opened")
	return j, nil
}

// SessionID returns the ID of the session being written.
func (j *Journal) SessionID() string {
	return j.session
}

// Observe journals f; failures are logged, never returned, so that a broken
// journal cannot stop the engine.
func (j *Journal) Observe(f engine.Frame) {
	if err := j.Record(f); err != nil {
		j.logger.Warn().Err(err).Int("frame", f.Index).Msg("journal write failed")
	}
}

// Record stores every action of f. Actions the sink accepted are "ok", the
// one that failed is "failed" and those after it are "skipped".
func (j *Journal) Record(f engine.Frame) error {
	if f.Index+1 > j.frames {
		j.frames = f.Index + 1
	}
	if len(f.Result.Actions) == 0 {
		return nil
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO actions (session_id, frame, kind, x, y, button, delta, modifier, key, gesture, status, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	fired := ""
	if f.Result.Fired != gesture.ClassNone {
		fired = f.Result.Fired.String()
	}

	for i, a := range f.Result.Actions {
		status, errText := statusOf(i, f)
		if _, err := stmt.Exec(
			j.session, f.Index, string(a.Kind), a.X, a.Y, string(a.Button), a.Delta, a.Modifier, a.Key,
			fired, status, errText, f.Time,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func statusOf(i int, f engine.Frame) (string, string) {
	switch {
	case f.DispatchErr == nil || i < f.Dispatched:
		return StatusOK, ""
	case i == f.Dispatched:
		return StatusFailed, f.DispatchErr.Error()
	default:
		return StatusSkipped, ""
	}
}

// Sessions lists all sessions, newest first.
func (j *Journal) Sessions() ([]Session, error) {
	rows, err := j.db.Query(
		`SELECT id, source, started_at, ended_at, frames FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var ended sql.NullTime
		if err := rows.Scan(&s.ID, &s.Source, &s.StartedAt, &ended, &s.Frames); err != nil {
			return nil, err
		}
		if ended.Valid {
			s.EndedAt = &ended.Time
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Entries returns the actions of a session in dispatch order.
func (j *Journal) Entries(sessionID string) ([]Entry, error) {
	var exists int
	err := j.db.QueryRow(`SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := j.db.Query(
		`SELECT frame, kind, x, y, button, delta, modifier, key, gesture, status, error, created_at
		 FROM actions WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind, button string
		if err := rows.Scan(
			&e.Frame, &kind, &e.Action.X, &e.Action.Y, &button, &e.Action.Delta,
			&e.Action.Modifier, &e.Action.Key, &e.Gesture, &e.Status, &e.Error, &e.At,
		); err != nil {
			return nil, err
		}
		e.Action.Kind = action.Kind(kind)
		e.Action.Button = action.Button(button)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Close ends the session and closes the database connection.
func (j *Journal) Close() error {
	_, err := j.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ? WHERE id = ?`,
		time.Now(), j.frames, j.session,
	)
	if cerr := j.db.Close(); err == nil {
		err = cerr
	}
	return err
}
