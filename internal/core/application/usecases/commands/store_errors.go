package commands

import (
	"errors"

	"tablesync/internal/pkg/errs"
)

// storeError marks err as a remote store failure unless it already is one or
// is a domain error the caller must see as is.
func storeError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errs.ErrRemoteStoreUnavailable) || errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	return errs.NewRemoteStoreUnavailableError(operation, err)
}
