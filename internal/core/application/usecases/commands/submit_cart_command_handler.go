package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/core/domain/services"
	"tablesync/internal/core/ports"
)

// orderClock is shared by every handler of the process so that sub-order IDs
// stay unique across concurrent submissions.
var orderClock = kernel.NewOrderClock()

// SubmitCartResult lists what happened to each sub-order of a cart.
type SubmitCartResult struct {
	// Orders were persisted, drinks first.
	Orders []*order.Order
	// Unsaved were built but could not be persisted. They are still queued
	// for printing on this device.
	Unsaved []*order.Order
	// EnqueueErrors holds print enqueue failures. They never fail the command.
	EnqueueErrors []error
}

// SubmitCartCommandHandler turns a cart into sub-orders.
//
// The duplicate guard runs for every kind before anything is written, so a
// rejected cart leaves no trace. Each sub-order is persisted in its own
// transaction and then offered to the local print queue, even when the
// persist failed. Sub-orders that never reached the store produce no feed
// event, so their print jobs are drained through drains instead.
type SubmitCartCommandHandler struct {
	uowFactory OrderUoWFactory
	printer    PrintEnqueuer
	drains     DrainRequester
	splitter   services.OrderSplitter
	logger     *slog.Logger
}

func NewSubmitCartCommandHandler(
	uowFactory OrderUoWFactory,
	printer PrintEnqueuer,
	drains DrainRequester,
	splitter services.OrderSplitter,
	logger *slog.Logger,
) SubmitCartCommandHandler {
	return SubmitCartCommandHandler{
		uowFactory: uowFactory,
		printer:    printer,
		drains:     drains,
		splitter:   splitter,
		logger:     logger.With("component", "submit_cart"),
	}
}

// Handle returns an *errs.DuplicateOrderError when the guard trips and an
// *errs.RemoteStoreUnavailableError when the store could not be read or a
// sub-order could not be written. In the latter case the result still
// describes every sub-order.
func (h *SubmitCartCommandHandler) Handle(ctx context.Context, cmd SubmitCartCommand) (SubmitCartResult, error) {
	if err := cmd.Validate(); err != nil {
		return SubmitCartResult{}, err
	}
	cart := cmd.Cart()

	repo := h.uowFactory.Create().OrderRepository()
	for _, kind := range cart.Kinds() {
		open, err := repo.List(ctx, ports.OrderFilter{
			Table:    cart.Table().Name,
			Kind:     kind,
			Statuses: order.OpenStatuses(),
		})
		if err != nil {
			return SubmitCartResult{}, storeError("check open orders", err)
		}
		if err = h.splitter.CheckDuplicate(cart, kind, open); err != nil {
			return SubmitCartResult{}, err
		}
	}

	orders, err := h.splitter.Split(cart, orderClock.Now())
	if err != nil {
		return SubmitCartResult{}, err
	}

	var (
		result      SubmitCartResult
		persistErrs []error
	)
	for _, o := range orders {
		if err := h.persist(ctx, o); err != nil {
			h.logger.ErrorContext(ctx, "Failed to persist order", "order_id", o.ID().String(), "error", err)
			persistErrs = append(persistErrs, fmt.Errorf("%s: %w", o.ID(), err))
			result.Unsaved = append(result.Unsaved, o)
			continue
		}
		result.Orders = append(result.Orders, o)
	}

	for _, o := range orders {
		if _, err := h.printer.Enqueue(ctx, o); err != nil {
			h.logger.WarnContext(ctx, "Failed to queue print job", "order_id", o.ID().String(), "error", err)
			result.EnqueueErrors = append(result.EnqueueErrors, fmt.Errorf("%s: %w", o.ID(), err))
		}
	}

	if len(persistErrs) > 0 {
		if h.drains != nil {
			h.drains.RequestDrain(ctx)
		}
		return result, storeError("persist order", errors.Join(persistErrs...))
	}
	return result, nil
}

func (h *SubmitCartCommandHandler) persist(ctx context.Context, o *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
