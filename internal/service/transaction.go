package service

import "context"

// TransactionManager runs fn in one database transaction, committing when
// fn returns nil. Repositories called with the context passed to fn join
// the transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
