// Package postgres implements the domain repository interfaces directly
// against pgx/v5 (no sqlc layer — see DESIGN.md).
package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isPgUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isPgUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// queryRower is the subset of *pgxpool.Pool and pgx.Tx that repositories
// need, letting the same query/scan code run inside or outside a
// transaction.
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// itoa is shorthand for building positional placeholders in dynamically
// assembled WHERE clauses.
func itoa(i int) string {
	return strconv.Itoa(i)
}
