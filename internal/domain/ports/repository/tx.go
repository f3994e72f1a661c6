package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque executor handle threaded through repository calls. The
// concrete type is infra-defined (pgx.Tx for Postgres). Repositories MUST
// accept NoTX (nil) and fall back to their own pool.
type Tx interface{}

var NoTX interface{}

// TransactionManager executes a function within a storage transaction,
// passing the transaction handle to the callback. Keeps use-case interfaces
// free of driver types while still letting repositories detect a tx and use
// SELECT ... FOR UPDATE where needed.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
