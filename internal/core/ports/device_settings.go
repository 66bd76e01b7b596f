package ports

import (
	"context"

	"tablesync/internal/core/domain/model/printjob"
)

// DeviceSettings holds the device-local scalars.
type DeviceSettings interface {
	IsPrintingDevice(ctx context.Context) (bool, error)
	SetPrintingDevice(ctx context.Context, enabled bool) error

	AutoPrintPolicy(ctx context.Context) (printjob.Policy, error)
	SetAutoPrintPolicy(ctx context.Context, policy printjob.Policy) error

	// FeedCursor returns the last applied change ID and whether one was stored.
	FeedCursor(ctx context.Context) (int64, bool, error)
	SetFeedCursor(ctx context.Context, id int64) error

	CookingOptions(ctx context.Context) ([]string, error)
	SetCookingOptions(ctx context.Context, options []string) error
}
