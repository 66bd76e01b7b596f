package ports

import (
	"context"

	"tablesync/internal/core/domain/model/notification"
)

// PrinterSink hands a rendered ticket to a physical or virtual printer.
type PrinterSink interface {
	Print(ctx context.Context, ticket string) error
}

// NotificationSink surfaces a notification to the UI of this device.
type NotificationSink interface {
	Surface(ctx context.Context, n *notification.Notification) error
}
