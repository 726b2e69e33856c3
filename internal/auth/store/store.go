// Package store holds the shared SQL plumbing for the per-record store
// packages beneath it. Store interfaces live with their consumers in
// internal/auth/service; implementations here return sentinel errors.
package store

import (
	"context"
	"database/sql"

	"authlander/pkg/platform/tx"
)

// Querier is the subset of *sql.DB / *sql.Tx the stores use, so a mutation can
// transparently join a transaction bound to the context.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Q returns the context transaction when one is bound, the pool otherwise.
func Q(ctx context.Context, db *sql.DB) Querier {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return db
}
