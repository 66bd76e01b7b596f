package pipeline

import (
	"context"

	"tablesync/internal/core/application/printing"
	"tablesync/internal/core/domain/model/change"
	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/core/domain/model/printjob"
)

type printer interface {
	Enqueue(ctx context.Context, o *order.Order) (*printjob.PrintJob, error)
	Drain(ctx context.Context) (printing.DrainReport, error)
}

type notifier interface {
	Offer(ctx context.Context, n *notification.Notification) (bool, error)
	Sync(ctx context.Context) (int, error)
}

// RegisterDefaultRoutes wires the standard reactions: new orders are queued
// for printing and drained, notification rows are offered to the
// deduplicator, poll ticks resync notifications and drain requests drain.
func RegisterDefaultRoutes(d *Dispatcher, p printer, n notifier) {
	drain := func(ctx context.Context) error {
		_, err := p.Drain(ctx)
		return err
	}

	d.Subscribe(change.Orders, Subscription{
		OnInsert: func(ctx context.Context, e change.Event) error {
			if e.Order == nil {
				return nil
			}
			if _, err := p.Enqueue(ctx, e.Order); err != nil {
				return err
			}
			return drain(ctx)
		},
	})

	offer := func(ctx context.Context, e change.Event) error {
		if e.Notification == nil {
			return nil
		}
		_, err := n.Offer(ctx, e.Notification)
		return err
	}
	d.Subscribe(change.Notifications, Subscription{OnInsert: offer, OnUpdate: offer})

	d.OnPollTick(func(ctx context.Context) error {
		_, err := n.Sync(ctx)
		return err
	})
	d.OnDrainRequest(drain)
}
