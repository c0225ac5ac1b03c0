package ledger

import "context"

// Repository appends ledger entries. There is no uniqueness guard on
// (gateway, reference): a redelivered notification inserts a second row.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
}
