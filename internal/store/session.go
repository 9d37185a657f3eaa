package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents a completed training session stored in the database.
// Rows are append-only: they are written once when a session stops and are
// never mutated or deleted by the application.
type Session struct {
	ID         string
	Module     string
	Transcript string
	StartedAt  time.Time
	StoppedAt  time.Time
	CreatedAt  time.Time
}

// SessionRepository provides access to the session log.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Append inserts a completed session into the log.
func (r *SessionRepository) Append(sess *Session) error {
	sess.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, module, transcript, started_at, stopped_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Module, sess.Transcript, sess.StartedAt, sess.StoppedAt, sess.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}

	err := r.db.QueryRow(
		`SELECT id, module, transcript, started_at, stopped_at, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Module, &sess.Transcript, &sess.StartedAt, &sess.StoppedAt, &sess.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sess, nil
}

// List retrieves all sessions from the log, most recent first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, module, transcript, started_at, stopped_at, created_at
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}

		err := rows.Scan(&sess.ID, &sess.Module, &sess.Transcript, &sess.StartedAt, &sess.StoppedAt, &sess.CreatedAt)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// ListByModule retrieves all sessions for one training module, most recent first.
func (r *SessionRepository) ListByModule(module string) ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, module, transcript, started_at, stopped_at, created_at
		 FROM sessions WHERE module = ? ORDER BY started_at DESC`,
		module,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}

		err := rows.Scan(&sess.ID, &sess.Module, &sess.Transcript, &sess.StartedAt, &sess.StoppedAt, &sess.CreatedAt)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
