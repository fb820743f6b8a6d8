package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks a call that must run against the pool rather than inside a
// transaction.
var NoTX Tx

// TransactionManager executes a function inside a database transaction,
// handing the tx handle to repositories via `tx`. Repositories must accept
// NoTX and fall back to the pool (non-transactional path); the concrete
// handle type is infra-defined (pgx.Tx for Postgres).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
