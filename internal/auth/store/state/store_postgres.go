// Package state persists the one-time CSRF bindings created at login.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"authlander/internal/auth/models"
	"authlander/internal/auth/store"
	"authlander/pkg/platform/sentinel"
)

// PostgresStateStore persists authorization states in PostgreSQL.
type PostgresStateStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed state store.
func NewPostgres(db *sql.DB) *PostgresStateStore {
	return &PostgresStateStore{db: db}
}

func (s *PostgresStateStore) Create(ctx context.Context, record *models.AuthState) error {
	_, err := store.Q(ctx, s.db).ExecContext(ctx,
		`INSERT INTO states (state, nonce, redirect_uri) VALUES ($1, $2, $3)`,
		record.State, record.Nonce, record.ReturnURI,
	)
	if err != nil {
		return fmt.Errorf("insert state: %w", err)
	}
	return nil
}

func (s *PostgresStateStore) Find(ctx context.Context, state string) (*models.AuthState, error) {
	record := models.AuthState{State: state}
	err := store.Q(ctx, s.db).QueryRowContext(ctx,
		`SELECT nonce, redirect_uri FROM states WHERE state = $1`,
		state,
	).Scan(&record.Nonce, &record.ReturnURI)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("state not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find state: %w", err)
	}
	return &record, nil
}

// Delete removes the state row; deleting an absent row is not an error.
func (s *PostgresStateStore) Delete(ctx context.Context, state string) error {
	_, err := store.Q(ctx, s.db).ExecContext(ctx, `DELETE FROM states WHERE state = $1`, state)
	if err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}
