// Package session persists browser session handles with absolute expiry.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"authlander/internal/auth/models"
	"authlander/internal/auth/store"
	"authlander/pkg/platform/sentinel"
)

// PostgresSessionStore persists sessions in PostgreSQL.
type PostgresSessionStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed session store.
func NewPostgres(db *sql.DB) *PostgresSessionStore {
	return &PostgresSessionStore{db: db}
}

func (s *PostgresSessionStore) Create(ctx context.Context, record *models.Session) error {
	_, err := store.Q(ctx, s.db).ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, expiry) VALUES ($1, $2, $3)`,
		record.ID, record.UserID, record.Expiry,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) Find(ctx context.Context, id string) (*models.Session, error) {
	record := models.Session{ID: id}
	err := store.Q(ctx, s.db).QueryRowContext(ctx,
		`SELECT user_id, expiry FROM sessions WHERE session_id = $1`,
		id,
	).Scan(&record.UserID, &record.Expiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &record, nil
}

func (s *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	_, err := store.Q(ctx, s.db).ExecContext(ctx, `DELETE FROM sessions WHERE session_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	_, err := store.Q(ctx, s.db).ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete sessions by user: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry has passed. Used by the optional
// sweeper; lazy on-read expiry does not depend on it.
func (s *PostgresSessionStore) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	res, err := store.Q(ctx, s.db).ExecContext(ctx, `DELETE FROM sessions WHERE expiry <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired sessions: %w", err)
	}
	return n, nil
}
