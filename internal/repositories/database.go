package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the query surface every repository is built against. It is
// satisfied by *pgxpool.Pool, pgx.Tx, and pgxmock.PgxPoolIface, so the same
// repository code runs against the pool, inside a transaction, or under test.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool and
// pgxmock.PgxPoolIface.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
