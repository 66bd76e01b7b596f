package changefeed

import (
	"context"
	"log/slog"
	"time"

	"tablesync/internal/adapters/out/postgres/dbcall"
	"tablesync/internal/adapters/out/postgres/notificationrepo"
	"tablesync/internal/adapters/out/postgres/orderrepo"
	"tablesync/internal/core/domain/model/change"

	"gorm.io/gorm"
)

// GormChangeFeed implements ports.ChangeFeed over the changes table.
type GormChangeFeed struct {
	db      *gorm.DB
	timeout time.Duration
	logger  *slog.Logger
}

func NewGormChangeFeed(db *gorm.DB, timeout time.Duration, logger *slog.Logger) *GormChangeFeed {
	return &GormChangeFeed{
		db:      db,
		timeout: timeout,
		logger:  logger.With("component", "change_feed"),
	}
}

// Changes returns events after the given ID. A row whose payload cannot be
// decoded is still returned, without its entity, so the caller's cursor can
// move past it.
func (f *GormChangeFeed) Changes(ctx context.Context, after int64, limit int) ([]change.Event, error) {
	callCtx, cancel := dbcall.WithTimeout(ctx, f.timeout)
	defer cancel()

	var rows []ChangeDTO
	query := f.db.WithContext(callCtx).Where("id > ?", after).Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, dbcall.Translate("read change feed", "change", after, err)
	}

	events := make([]change.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, f.toEvent(ctx, row))
	}
	return events, nil
}

func (f *GormChangeFeed) Latest(ctx context.Context) (int64, error) {
	callCtx, cancel := dbcall.WithTimeout(ctx, f.timeout)
	defer cancel()

	var latest int64
	err := f.db.WithContext(callCtx).Model(&ChangeDTO{}).Select("COALESCE(MAX(id), 0)").Scan(&latest).Error
	if err != nil {
		return 0, dbcall.Translate("read change feed head", "change", nil, err)
	}
	return latest, nil
}

func (f *GormChangeFeed) toEvent(ctx context.Context, row ChangeDTO) change.Event {
	event := change.Event{
		ID:        row.ID,
		Table:     change.Table(row.Collection),
		RecordID:  row.RecordID,
		Action:    change.Action(row.Action),
		ChangedAt: row.ChangedAt,
	}
	if event.Action == change.Delete || row.Payload == "" {
		return event
	}

	var err error
	switch event.Table {
	case change.Orders:
		event.Order, err = orderrepo.DecodePayload([]byte(row.Payload))
	case change.Notifications:
		event.Notification, err = notificationrepo.DecodePayload([]byte(row.Payload))
	default:
		f.logger.WarnContext(ctx, "Change for unknown collection", "change_id", row.ID, "collection", row.Collection)
	}
	if err != nil {
		f.logger.WarnContext(ctx, "Undecodable change payload",
			"change_id", row.ID, "collection", row.Collection, "record_id", row.RecordID, "error", err)
	}
	return event
}
