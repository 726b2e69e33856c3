// Package scope reads the flat per-user scope grants.
package scope

import (
	"context"
	"database/sql"
	"fmt"

	"authlander/internal/auth/store"
)

// PostgresScopeStore reads scope grants from PostgreSQL. Scopes are
// provisioned out of band and deliberately survive revocation cascades.
type PostgresScopeStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed scope store.
func NewPostgres(db *sql.DB) *PostgresScopeStore {
	return &PostgresScopeStore{db: db}
}

func (s *PostgresScopeStore) ListByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := store.Q(ctx, s.db).QueryContext(ctx,
		`SELECT scope_name FROM scopes WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}
	defer rows.Close()

	scopes := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan scope: %w", err)
		}
		scopes = append(scopes, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scopes: %w", err)
	}
	return scopes, nil
}
