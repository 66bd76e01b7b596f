package commands

import (
	"context"
	"log/slog"
	"time"

	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/core/domain/model/order"
)

// PromoteStatusResult reports the order after the transition and the
// notification created by it, if any.
type PromoteStatusResult struct {
	Order        *order.Order
	Changed      bool
	Notification *notification.Notification
}

// PromoteStatusCommandHandler applies status transitions.
//
// Reaching Ready creates one unread "order ready" notification for the
// owning waitress. Re-promoting while that notification is still unread
// creates nothing. Order and notification commit together.
type PromoteStatusCommandHandler struct {
	uowFactory UoWFactory
	logger     *slog.Logger
}

func NewPromoteStatusCommandHandler(uowFactory UoWFactory, logger *slog.Logger) PromoteStatusCommandHandler {
	return PromoteStatusCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "promote_status"),
	}
}

// Handle returns an *errs.ObjectNotFoundError for unknown orders and an
// *errs.InvalidTransitionError for forbidden transitions. Neither writes
// anything.
func (h *PromoteStatusCommandHandler) Handle(ctx context.Context, cmd PromoteStatusCommand) (PromoteStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return PromoteStatusResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PromoteStatusResult{}, storeError("begin", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return PromoteStatusResult{}, storeError("get order", err)
	}

	now := time.Now()
	changed, err := o.Promote(cmd.Status(), now)
	if err != nil {
		h.logger.WarnContext(ctx, "Rejected status transition", "order_id", o.ID().String(), "error", err)
		return PromoteStatusResult{}, err
	}
	if changed {
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return PromoteStatusResult{}, storeError("update order", err)
		}
	}

	result := PromoteStatusResult{Order: o, Changed: changed}
	if o.Status() == order.Ready {
		result.Notification, err = h.notifyReady(ctx, uow, o, now)
		if err != nil {
			return PromoteStatusResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return PromoteStatusResult{}, storeError("commit", err)
	}
	return result, nil
}

func (h *PromoteStatusCommandHandler) notifyReady(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	now time.Time,
) (*notification.Notification, error) {
	repo := uow.NotificationRepository()
	unread, err := repo.ListUnreadByOrder(ctx, o.ID().String())
	if err != nil {
		return nil, storeError("list notifications", err)
	}
	for _, n := range unread {
		if n.Type() == notification.OrderReady {
			return nil, nil
		}
	}

	n, err := notification.NewOrderReady(o, now)
	if err != nil {
		return nil, err
	}
	if err = repo.Add(ctx, n); err != nil {
		return nil, storeError("add notification", err)
	}
	return n, nil
}
