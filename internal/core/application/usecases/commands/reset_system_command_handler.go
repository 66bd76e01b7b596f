package commands

import (
	"context"
	"log/slog"
)

// ResetSystemResult counts the removed rows.
type ResetSystemResult struct {
	Orders        int64
	Notifications int64
}

// ResetSystemCommandHandler wipes every order and notification from the
// remote store. Local print queues are not touched.
type ResetSystemCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

func NewResetSystemCommandHandler(uowFactory UoWFactory, logger *slog.Logger) ResetSystemCommandHandler {
	return ResetSystemCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "reset_system"),
	}
}

func (h *ResetSystemCommandHandler) Handle(ctx context.Context) (ResetSystemResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ResetSystemResult{}, storeError("begin", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		result ResetSystemResult
		err    error
	)
	if result.Notifications, err = uow.NotificationRepository().DeleteAll(ctx); err != nil {
		return ResetSystemResult{}, storeError("delete notifications", err)
	}
	if result.Orders, err = uow.OrderRepository().DeleteAll(ctx); err != nil {
		return ResetSystemResult{}, storeError("delete orders", err)
	}
	if err = uow.Commit(ctx); err != nil {
		return ResetSystemResult{}, storeError("commit", err)
	}

	h.logger.WarnContext(ctx, "System reset", "orders", result.Orders, "notifications", result.Notifications)
	return result, nil
}
