package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction against the remote store. Change records for
// the rows it touches are written in the same transaction, so a committed
// mutation always appears on the change feed.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction,
	// or to the plain connection before Begin.
	OrderRepository() OrderRepository

	// NotificationRepository returns a repository bound to the current
	// transaction, or to the plain connection before Begin.
	NotificationRepository() NotificationRepository
}
