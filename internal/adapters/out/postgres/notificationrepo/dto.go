// Package notificationrepo persists notifications in the remote store.
package notificationrepo

import (
	"encoding/json"
	"time"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/pkg/errs"

	"github.com/google/uuid"
)

// NotificationDTO is a row of the notifications table.
type NotificationDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        string    `gorm:"index;size:96" json:"orderId"`
	TargetWaitress string    `gorm:"index:idx_notifications_target_read;not null" json:"targetWaitress"`
	Table          string    `gorm:"column:table_name" json:"table"`
	Status         string    `gorm:"size:16;not null" json:"status"`
	Read           bool      `gorm:"index:idx_notifications_target_read;not null;default:false" json:"read"`
	CreatedAt      time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
}

// TableName specifies the database table name for notifications.
func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:             uuid.MustParse(n.ID().String()),
		OrderID:        n.OrderID(),
		TargetWaitress: n.TargetWaitress(),
		Table:          n.Table(),
		Status:         n.Type().String(),
		Read:           n.IsRead(),
		CreatedAt:      n.CreatedAt().UTC(),
	}
}

// ToDomain rebuilds a notification from its row.
func ToDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromString(dto.ID.String())
	if err != nil {
		return nil, err
	}
	kind, err := notification.ParseType(dto.Status)
	if err != nil {
		return nil, err
	}
	return notification.Restore(id, dto.OrderID, dto.TargetWaitress, dto.Table, kind, dto.Read, dto.CreatedAt)
}

// DecodePayload rebuilds a notification from a change feed payload.
func DecodePayload(payload []byte) (*notification.Notification, error) {
	var dto NotificationDTO
	if err := json.Unmarshal(payload, &dto); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("notification payload", err)
	}
	return ToDomain(dto)
}
