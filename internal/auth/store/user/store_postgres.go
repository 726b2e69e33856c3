// Package user persists the reconciled user directory records.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"authlander/internal/auth/models"
	"authlander/internal/auth/store"
	"authlander/pkg/platform/sentinel"
)

// PostgresUserStore persists users in PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, record *models.User) error {
	_, err := store.Q(ctx, s.db).ExecContext(ctx,
		`INSERT INTO users (user_id, active, name, email, picture, refresh_token)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.Active, record.Name, record.Email, record.Picture, record.RefreshToken,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) Find(ctx context.Context, id string) (*models.User, error) {
	record := models.User{ID: id}
	err := store.Q(ctx, s.db).QueryRowContext(ctx,
		`SELECT active, name, email, picture, refresh_token FROM users WHERE user_id = $1`,
		id,
	).Scan(&record.Active, &record.Name, &record.Email, &record.Picture, &record.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &record, nil
}

func (s *PostgresUserStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := store.Q(ctx, s.db).QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE user_id = $1`, id,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("user exists: %w", err)
	}
	return true, nil
}

func (s *PostgresUserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := store.Q(ctx, s.db).QueryContext(ctx,
		`SELECT user_id, active, name, email, picture FROM users ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var record models.User
		if err := rows.Scan(&record.ID, &record.Active, &record.Name, &record.Email, &record.Picture); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Per-field updates mirror the reconciliation flow: one statement per field
// that actually changed, never a blanket row rewrite.

func (s *PostgresUserStore) UpdateRefreshToken(ctx context.Context, id, token string) error {
	return s.updateColumn(ctx, `UPDATE users SET refresh_token = $1 WHERE user_id = $2`, token, id)
}

func (s *PostgresUserStore) UpdateEmail(ctx context.Context, id, email string) error {
	return s.updateColumn(ctx, `UPDATE users SET email = $1 WHERE user_id = $2`, email, id)
}

func (s *PostgresUserStore) UpdateName(ctx context.Context, id, name string) error {
	return s.updateColumn(ctx, `UPDATE users SET name = $1 WHERE user_id = $2`, name, id)
}

func (s *PostgresUserStore) UpdatePicture(ctx context.Context, id, picture string) error {
	return s.updateColumn(ctx, `UPDATE users SET picture = $1 WHERE user_id = $2`, picture, id)
}

func (s *PostgresUserStore) SetActive(ctx context.Context, id string, active bool) error {
	return s.updateColumn(ctx, `UPDATE users SET active = $1 WHERE user_id = $2`, active, id)
}

func (s *PostgresUserStore) updateColumn(ctx context.Context, query string, value any, id string) error {
	res, err := store.Q(ctx, s.db).ExecContext(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresUserStore) Delete(ctx context.Context, id string) error {
	_, err := store.Q(ctx, s.db).ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
