package ports

import (
	"context"

	"tablesync/internal/core/domain/model/change"
)

// ChangeFeed reads the remote store's change log.
type ChangeFeed interface {
	// Changes returns up to limit events with an ID greater than after,
	// in ascending ID order.
	Changes(ctx context.Context, after int64, limit int) ([]change.Event, error)

	// Latest returns the highest change ID, or 0 when the log is empty.
	Latest(ctx context.Context) (int64, error)
}
