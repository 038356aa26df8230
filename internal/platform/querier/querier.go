// Package querier describes the subset of pgx shared by pools and
// transactions so stores can run the same SQL against either.
package querier

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can also open a transaction. *pgxpool.Pool satisfies it.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}
