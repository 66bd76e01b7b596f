package notificationrepo

import (
	"context"
	"encoding/json"
	"time"

	"tablesync/internal/adapters/out/postgres/dbcall"
	"tablesync/internal/core/domain/model/change"
	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements ports.NotificationRepository using GORM.
type GormNotificationRepository struct {
	db      *gorm.DB
	tracker changeTracker
	timeout time.Duration
}

type changeTracker interface {
	TrackChange(ctx context.Context, table change.Table, recordID string, action change.Action, payload []byte) error
}

func NewGormNotificationRepository(db *gorm.DB, tracker changeTracker, timeout time.Duration) *GormNotificationRepository {
	return &GormNotificationRepository{db: db, tracker: tracker, timeout: timeout}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	dto := fromDomain(n)

	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.db.WithContext(callCtx).Create(&dto).Error; err != nil {
		return dbcall.Translate("add notification", "notification", dto.ID.String(), err)
	}
	return r.track(ctx, dto, change.Insert)
}

// Update persists the read flag.
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	dto := fromDomain(n)

	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()
	result := r.db.WithContext(callCtx).Model(&NotificationDTO{}).Where("id = ?", dto.ID).Update("read", dto.Read)
	if result.Error != nil {
		return dbcall.Translate("update notification", "notification", dto.ID.String(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", dto.ID.String())
	}
	return r.track(ctx, dto, change.Update)
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()
	var dto NotificationDTO
	if err := r.db.WithContext(callCtx).First(&dto, "id = ?", id.String()).Error; err != nil {
		return nil, dbcall.Translate("get notification", "notification", id.String(), err)
	}
	return ToDomain(dto)
}

func (r *GormNotificationRepository) ListUnread(ctx context.Context, waitress string) ([]*notification.Notification, error) {
	return r.listUnread(ctx, "target_waitress = ?", waitress)
}

func (r *GormNotificationRepository) ListUnreadByOrder(ctx context.Context, orderID string) ([]*notification.Notification, error) {
	return r.listUnread(ctx, "order_id = ?", orderID)
}

// DeleteAll removes every notification and records a delete change for each.
func (r *GormNotificationRepository) DeleteAll(ctx context.Context) (int64, error) {
	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()

	var ids []string
	if err := r.db.WithContext(callCtx).Model(&NotificationDTO{}).Order("created_at").Pluck("id", &ids).Error; err != nil {
		return 0, dbcall.Translate("delete notifications", "notification", nil, err)
	}
	result := r.db.WithContext(callCtx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&NotificationDTO{})
	if result.Error != nil {
		return 0, dbcall.Translate("delete notifications", "notification", nil, result.Error)
	}
	for _, id := range ids {
		if err := r.tracker.TrackChange(ctx, change.Notifications, id, change.Delete, nil); err != nil {
			return 0, err
		}
	}
	return result.RowsAffected, nil
}

func (r *GormNotificationRepository) listUnread(ctx context.Context, cond string, arg any) ([]*notification.Notification, error) {
	callCtx, cancel := dbcall.WithTimeout(ctx, r.timeout)
	defer cancel()

	var dtos []NotificationDTO
	err := r.db.WithContext(callCtx).Where(cond, arg).Where("read = ?", false).Order("created_at, id").Find(&dtos).Error
	if err != nil {
		return nil, dbcall.Translate("list notifications", "notification", nil, err)
	}

	list := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := ToDomain(dto)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, nil
}

func (r *GormNotificationRepository) track(ctx context.Context, dto NotificationDTO, action change.Action) error {
	payload, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	return r.tracker.TrackChange(ctx, change.Notifications, dto.ID.String(), action, payload)
}
