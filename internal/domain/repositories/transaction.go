package repositories

import "context"

// TxFn is a unit of work run inside a transaction. Repositories called with
// the ctx it receives join that transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs multi-step writes atomically
type TransactionManager interface {
	// ExecTx commits if fn returns nil and rolls back otherwise
	ExecTx(ctx context.Context, fn TxFn) error
}
