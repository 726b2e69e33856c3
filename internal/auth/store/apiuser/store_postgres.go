// Package apiuser reads the out-of-band provisioned service credentials.
package apiuser

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"authlander/internal/auth/models"
	"authlander/internal/auth/store"
	"authlander/pkg/platform/sentinel"
)

// PostgresAPIUserStore reads service credentials from PostgreSQL. The core
// never writes this table.
type PostgresAPIUserStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed API user store.
func NewPostgres(db *sql.DB) *PostgresAPIUserStore {
	return &PostgresAPIUserStore{db: db}
}

func (s *PostgresAPIUserStore) Find(ctx context.Context, token string) (*models.APIUser, error) {
	record := models.APIUser{Token: token}
	err := store.Q(ctx, s.db).QueryRowContext(ctx,
		`SELECT active, name FROM api_users WHERE api_token = $1`,
		token,
	).Scan(&record.Active, &record.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("api user not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find api user: %w", err)
	}
	return &record, nil
}
