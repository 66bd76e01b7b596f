// Package dbcall holds the helpers every remote store call goes through:
// a bounded context and translation of driver errors into domain errors.
package dbcall

import (
	"context"
	"errors"
	"time"

	"tablesync/internal/pkg/errs"

	"gorm.io/gorm"
)

// WithTimeout bounds ctx by d. A non-positive d leaves ctx unbounded.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Translate maps a gorm error to the error kinds the core understands.
// Record-not-found becomes an ObjectNotFoundError for entity/id, everything
// else a RemoteStoreUnavailableError for operation.
func Translate(operation, entity string, id any, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewObjectNotFoundErrorWithCause(entity, id, err)
	case errors.Is(err, errs.ErrRemoteStoreUnavailable):
		return err
	default:
		return errs.NewRemoteStoreUnavailableError(operation, err)
	}
}
