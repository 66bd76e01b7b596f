package commands

import (
	"context"
	"time"

	"tablesync/internal/core/domain/model/notification"
)

// CallWaitressCommandHandler creates kitchen call notifications.
type CallWaitressCommandHandler struct {
	uowFactory UoWFactory
}

func NewCallWaitressCommandHandler(uowFactory UoWFactory) CallWaitressCommandHandler {
	return CallWaitressCommandHandler{uowFactory: uowFactory}
}

// Handle sends one call to the named waitress, or one to every waitress
// that owns an order when none is named.
func (h *CallWaitressCommandHandler) Handle(ctx context.Context, cmd CallWaitressCommand) ([]*notification.Notification, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	targets := []string{cmd.Waitress()}
	if cmd.Waitress() == "" {
		var err error
		targets, err = uow.OrderRepository().DistinctWaitresses(ctx)
		if err != nil {
			return nil, storeError("list waitresses", err)
		}
	}

	now := time.Now()
	calls := make([]*notification.Notification, 0, len(targets))
	for _, waitress := range targets {
		n, err := notification.NewKitchenCall(cmd.Table(), waitress, cmd.OrderID(), now)
		if err != nil {
			return nil, err
		}
		if err = uow.NotificationRepository().Add(ctx, n); err != nil {
			return nil, storeError("add notification", err)
		}
		calls = append(calls, n)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, storeError("commit", err)
	}
	return calls, nil
}
