// Package commands contains business operations that modify the remote store.
// Every command follows the same pattern: validation, transaction management,
// persistence, and side effects on the local device after commit.
package commands

import (
	"context"

	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// They narrow ports.UnitOfWork to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// NotificationRepoFactory provides access to the notification repository
	// within a transaction.
	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across orders and notifications.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   notificationRepo := uow.NotificationRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		NotificationRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// PrintEnqueuer queues a sub-order on this device's print queue.
type PrintEnqueuer interface {
	Enqueue(ctx context.Context, o *order.Order) (*printjob.PrintJob, error)
}

// DrainRequester schedules a print queue drain.
type DrainRequester interface {
	RequestDrain(ctx context.Context)
}
