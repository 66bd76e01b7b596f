package ports

import (
	"context"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for notifications
// in the remote store. The remote read flag is the source of truth for
// acknowledgement.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error

	// Update persists the read flag of an existing notification.
	Update(ctx context.Context, n *notification.Notification) error

	// Get returns the notification with id or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// ListUnread returns unread notifications addressed to waitress, oldest first.
	ListUnread(ctx context.Context, waitress string) ([]*notification.Notification, error)

	// ListUnreadByOrder returns unread notifications referencing orderID.
	ListUnreadByOrder(ctx context.Context, orderID string) ([]*notification.Notification, error)

	DeleteAll(ctx context.Context) (int64, error)
}
