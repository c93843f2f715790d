package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// withTx runs fn inside a pool transaction, committing on success and
// rolling back on any error. When pool is nil (unit tests wired against
// in-memory testutil repositories with no real database), fn runs directly
// with a nil tx handle instead — mirroring the teacher's "if s.pool != nil"
// fallback so services stay testable without a live Postgres connection.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx interface{}) error) error {
	if pool == nil {
		return fn(nil)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
