package orderrepo

import (
	"context"
	"time"

	"tablesync/internal/adapters/out/postgres/dbcall"
	"tablesync/internal/core/domain/model/change"
	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/core/ports"
	"tablesync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker changeTracker
	timeout time.Duration
}

// changeTracker records row changes for the change feed.
type changeTracker interface {
	TrackChange(ctx context.Context, table change.Table, recordID string, action change.Action, payload []byte) error
}

// NewGormOrderRepository creates a repository bound to db. Every call is
// bounded by timeout when it is positive.
func NewGormOrderRepository(db *gorm.DB, tracker changeTracker, timeout time.Duration) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
		timeout: timeout,
	}
}

// Add saves a new sub-order and records an insert change.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err = r.db.WithContext(callCtx).Create(&dto).Error; err != nil {
		return dbcall.Translate("add order", "order", dto.ID, err)
	}
	return r.track(ctx, dto, change.Insert)
}

// Update saves the status of an existing sub-order and records an update change.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()
	result := r.db.WithContext(callCtx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return dbcall.Translate("update order", "order", dto.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", dto.ID)
	}
	return r.track(ctx, dto, change.Update)
}

// Get retrieves a sub-order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()
	var dto OrderDTO
	if err := r.db.WithContext(callCtx).First(&dto, "id = ?", id.String()).Error; err != nil {
		return nil, dbcall.Translate("get order", "order", id.String(), err)
	}
	return ToDomain(dto)
}

// List retrieves the sub-orders matching filter, oldest first.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := r.db.WithContext(callCtx).Model(&OrderDTO{})
	if filter.Table != "" {
		q = q.Where("table_name = ?", filter.Table)
	}
	if filter.Kind != kernel.UnknownKind {
		q = q.Where("kind = ?", filter.Kind.String())
	}
	if filter.Waitress != "" {
		q = q.Where("waitress = ?", filter.Waitress)
	}
	if len(filter.Statuses) > 0 {
		names := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			names = append(names, s.String())
		}
		q = q.Where("status IN ?", names)
	}

	var dtos []OrderDTO
	if err := q.Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, dbcall.Translate("list orders", "order", nil, err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := ToDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// DistinctWaitresses returns the owners of all stored sub-orders.
func (r *GormOrderRepository) DistinctWaitresses(ctx context.Context) ([]string, error) {
	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()

	var names []string
	err := r.db.WithContext(callCtx).Model(&OrderDTO{}).Distinct("waitress").Order("waitress").Pluck("waitress", &names).Error
	if err != nil {
		return nil, dbcall.Translate("list waitresses", "order", nil, err)
	}
	return names, nil
}

// DeleteAll removes every sub-order and records a delete change for each.
func (r *GormOrderRepository) DeleteAll(ctx context.Context) (int64, error) {
	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()

	var ids []string
	if err := r.db.WithContext(callCtx).Model(&OrderDTO{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, dbcall.Translate("delete orders", "order", nil, err)
	}
	result := r.db.WithContext(callCtx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&OrderDTO{})
	if result.Error != nil {
		return 0, dbcall.Translate("delete orders", "order", nil, result.Error)
	}

	for _, id := range ids {
		if err := r.tracker.TrackChange(ctx, change.Orders, id, change.Delete, nil); err != nil {
			return 0, err
		}
	}
	return result.RowsAffected, nil
}

func (r *GormOrderRepository) track(ctx context.Context, dto OrderDTO, action change.Action) error {
	payload, err := encodePayload(dto)
	if err != nil {
		return err
	}
	return r.tracker.TrackChange(ctx, change.Orders, dto.ID, action, payload)
}
