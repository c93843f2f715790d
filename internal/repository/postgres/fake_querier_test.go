package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRow is a pgx.Row test double that delegates Scan to a closure, so a
// test can populate only the destinations it cares about.
type fakeRow struct {
	scan func(dest ...interface{}) error
}

func (f fakeRow) Scan(dest ...interface{}) error {
	return f.scan(dest...)
}

// fakeQuerier is a queryRower test double that records the last statement
// and args it was asked to run, so a test can assert on the SQL a
// repository method issues without a live database.
type fakeQuerier struct {
	lastSQL  string
	lastArgs []interface{}
	row      pgx.Row
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.lastSQL = sql
	f.lastArgs = args
	return f.row
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.lastSQL = sql
	f.lastArgs = args
	return nil, errors.New("fakeQuerier: Query not implemented")
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.lastSQL = sql
	f.lastArgs = args
	return pgconn.CommandTag{}, errors.New("fakeQuerier: Exec not implemented")
}
