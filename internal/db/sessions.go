package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrSessionNotFound is returned when no snapshot exists for a session id.
var ErrSessionNotFound = errors.New("session not found")

// Session is the latest persisted snapshot of an editing session.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	Snapshot  json.RawMessage `json:"snapshot"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SessionSummary is a session listing entry without the snapshot body.
type SessionSummary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveSession stores snapshot as the session's latest state, replacing any
// earlier one.
func (db *DB) SaveSession(ctx context.Context, id uuid.UUID, snapshot any) error {
	jsonBytes, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_sessions (id, snapshot)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET snapshot = $2, updated_at = NOW()`,
		id, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// GetSession loads the latest snapshot of a session.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session
	err := db.pool.QueryRow(ctx,
		`SELECT id, snapshot, created_at, updated_at FROM resume_sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Snapshot, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &s, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM resume_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// ListSessions returns the most recently updated sessions first.
func (db *DB) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, created_at, updated_at FROM resume_sessions
		 ORDER BY updated_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SessionSummary, error) {
		var s SessionSummary
		err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSessionsBefore removes sessions not updated since cutoff and
// returns how many were removed.
func (db *DB) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resume_sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
