package queries

import (
	"context"

	"tablesync/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetUnreadNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewGetUnreadNotificationsQueryHandler(db *gorm.DB) GetUnreadNotificationsQueryHandler {
	return GetUnreadNotificationsQueryHandler{db: db}
}

// Handle returns the unread notifications, oldest first.
func (h GetUnreadNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetUnreadNotificationsQuery,
) ([]UnreadNotification, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result := make([]UnreadNotification, 0)
	err := h.db.WithContext(ctx).
		Table("notifications").
		Select("id, order_id, table_name AS \"table\", status AS type, created_at").
		Where("target_waitress = ? AND read = ?", query.waitress, false).
		Order("created_at, id").
		Scan(&result).Error
	if err != nil {
		return nil, errs.NewRemoteStoreUnavailableError("list unread notifications", err)
	}
	for i := range result {
		result[i].CreatedAt = result[i].CreatedAt.UTC()
	}
	return result, nil
}
