// Package postgres provides the GORM-based Unit of Work over the remote store.
//
// A unit of work binds the order and notification repositories to one
// database transaction and collects the change records those repositories
// emit. The change records are inserted into the changes table inside the same
// transaction at Commit, so a committed mutation is always visible on the
// change feed and a rolled back one never is.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, 5*time.Second, publisher.Notify)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.NotificationRepository().Add(ctx, n); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Repositories obtained before Begin run against the plain connection and
// their change records are written immediately.
//
// Concurrency Considerations:
//   - Each UnitOfWork instance holds its own transaction and must not be shared
//     between goroutines
//   - After-commit hooks run on the committing goroutine
package postgres

import (
	"context"
	"time"

	"tablesync/internal/adapters/out/postgres/changefeed"
	"tablesync/internal/adapters/out/postgres/dbcall"
	"tablesync/internal/adapters/out/postgres/notificationrepo"
	"tablesync/internal/adapters/out/postgres/orderrepo"
	"tablesync/internal/core/domain/model/change"
	"tablesync/internal/core/ports"

	"gorm.io/gorm"
)

// AfterCommitHook is invoked once change records are durable. lastChangeID
// is the highest change ID written by the commit.
type AfterCommitHook func(ctx context.Context, lastChangeID int64)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db      *gorm.DB
	timeout time.Duration
	hooks   []AfterCommitHook
}

// NewGormUnitOfWorkFactory creates a factory. timeout bounds each
// transaction from Begin to Commit and each statement run outside a
// transaction; a non-positive timeout disables the bound.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	factory := NewGormUnitOfWorkFactory(db, 5*time.Second)
func NewGormUnitOfWorkFactory(db *gorm.DB, timeout time.Duration, hooks ...AfterCommitHook) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, timeout: timeout, hooks: hooks}
}

// Create produces a new UnitOfWork with no active transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:      f.db,
		timeout: f.timeout,
		hooks:   f.hooks,
	}
}

// GormUnitOfWork coordinates one database transaction and the change records
// written with it.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	cancel  context.CancelFunc
	timeout time.Duration
	hooks   []AfterCommitHook
	pending []changefeed.ChangeDTO
}

// Begin starts a transaction. Calling Begin on an active unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	txCtx, cancel := dbcall.WithTimeout(ctx, uow.timeout)
	tx := uow.db.WithContext(txCtx).Begin()
	if tx.Error != nil {
		cancel()
		return dbcall.Translate("begin transaction", "transaction", nil, tx.Error)
	}

	uow.tx = tx
	uow.cancel = cancel
	uow.pending = nil
	return nil
}

// Commit writes the collected change records, commits, then runs the
// after-commit hooks. Returns gorm.ErrInvalidTransaction when no transaction
// is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	defer uow.finish()

	if len(uow.pending) > 0 {
		if err := uow.tx.Create(&uow.pending).Error; err != nil {
			_ = uow.tx.Rollback().Error
			return dbcall.Translate("write change records", "change", nil, err)
		}
	}
	if err := uow.tx.Commit().Error; err != nil {
		return dbcall.Translate("commit transaction", "transaction", nil, err)
	}

	if n := len(uow.pending); n > 0 {
		uow.afterCommit(ctx, uow.pending[n-1].ID)
	}
	return nil
}

// Rollback discards the transaction and its change records. Returns
// gorm.ErrInvalidTransaction when no transaction is active, which makes a
// deferred Rollback after a successful Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}
	defer uow.finish()

	return uow.tx.Rollback().Error
}

// OrderRepository returns an order repository bound to the current
// transaction, or to the plain connection before Begin.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow, uow.statementTimeout())
}

// NotificationRepository returns a notification repository bound to the
// current transaction, or to the plain connection before Begin.
func (uow *GormUnitOfWork) NotificationRepository() ports.NotificationRepository {
	return notificationrepo.NewGormNotificationRepository(uow.conn(), uow, uow.statementTimeout())
}

// TrackChange records a row change. Inside a transaction the record is
// buffered until Commit; outside one it is written at once.
func (uow *GormUnitOfWork) TrackChange(
	ctx context.Context,
	table change.Table,
	recordID string,
	action change.Action,
	payload []byte,
) error {
	row := changefeed.ChangeDTO{
		Collection: string(table),
		RecordID:   recordID,
		Action:     string(action),
		Payload:    string(payload),
		ChangedAt:  time.Now().UTC(),
	}

	if uow.tx != nil {
		uow.pending = append(uow.pending, row)
		return nil
	}

	callCtx, cancel := dbcall.WithTimeout(ctx, uow.timeout)
	defer cancel()
	if err := uow.db.WithContext(callCtx).Create(&row).Error; err != nil {
		return dbcall.Translate("write change record", "change", recordID, err)
	}
	uow.afterCommit(ctx, row.ID)
	return nil
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// statementTimeout is zero inside a transaction, which is bounded as a whole.
func (uow *GormUnitOfWork) statementTimeout() time.Duration {
	if uow.tx != nil {
		return 0
	}
	return uow.timeout
}

func (uow *GormUnitOfWork) afterCommit(ctx context.Context, lastChangeID int64) {
	for _, hook := range uow.hooks {
		hook(ctx, lastChangeID)
	}
}

func (uow *GormUnitOfWork) finish() {
	if uow.cancel != nil {
		uow.cancel()
	}
	uow.tx = nil
	uow.cancel = nil
	uow.pending = nil
}

// Migrate creates or updates the remote store schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&notificationrepo.NotificationDTO{},
		&changefeed.ChangeDTO{},
	)
}
