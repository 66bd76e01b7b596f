// Package ports defines the contracts between the core and its adapters:
// the remote order store, the change feed, the device-local queue and
// settings, and the printer and UI sinks.
package ports

import (
	"context"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
)

// OrderFilter narrows List. Zero fields do not filter.
type OrderFilter struct {
	Table    string
	Kind     kernel.Kind
	Waitress string
	Statuses []order.Status
}

// OrderRepository defines the persistence contract for sub-orders in the
// remote store. Every mutation is recorded on the change feed by the
// enclosing unit of work.
type OrderRepository interface {
	// Add persists a new sub-order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the current status of an existing sub-order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the sub-order with id or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// List returns the sub-orders matching filter, oldest first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)

	// DistinctWaitresses returns every waitress that owns at least one
	// sub-order, sorted by name.
	DistinctWaitresses(ctx context.Context) ([]string, error)

	// DeleteAll removes every sub-order and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
