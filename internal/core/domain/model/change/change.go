// Package change describes entries of the remote store's change feed.
//
// Delivery is at-least-once and may be duplicated or reordered, so every
// consumer must be idempotent per event.
package change

import (
	"time"

	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/core/domain/model/order"
)

// Table names the remote collection a change belongs to.
type Table string

const (
	Orders        Table = "orders"
	Notifications Table = "notifications"
)

type Action string

const (
	Insert Action = "insert"
	Update Action = "update"
	Delete Action = "delete"
)

// Event is one row change. Exactly one of Order and Notification is set for
// insert and update events on the matching table; both are nil for deletes.
type Event struct {
	ID           int64
	Table        Table
	RecordID     string
	Action       Action
	ChangedAt    time.Time
	Order        *order.Order
	Notification *notification.Notification
}
