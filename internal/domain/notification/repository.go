package notification

import "context"

// Repository stores operator notifications.
type Repository interface {
	Insert(ctx context.Context, n *Notification) error
}
