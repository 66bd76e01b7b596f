// Package notify surfaces notifications to the waitress signed in on this
// device exactly once per process lifetime.
//
// The set of surfaced keys lives in memory only. After a restart every
// notification that is still unread remotely is surfaced again; the remote
// read flag stays the source of truth.
package notify

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/core/ports"
)

// Deduplicator surfaces each notification of the signed-in waitress at most once.
type Deduplicator struct {
	uowFactory ports.UnitOfWorkFactory
	sink       ports.NotificationSink
	logger     *slog.Logger

	mu      sync.Mutex
	session string
	seen    map[notification.Key]struct{}
}

// NewDeduplicator starts a session for waitress, which may be empty on
// kitchen and admin devices.
func NewDeduplicator(
	uowFactory ports.UnitOfWorkFactory,
	sink ports.NotificationSink,
	waitress string,
	logger *slog.Logger,
) *Deduplicator {
	return &Deduplicator{
		uowFactory: uowFactory,
		sink:       sink,
		logger:     logger.With("component", "notification_deduplicator"),
		session:    strings.TrimSpace(waitress),
		seen:       make(map[notification.Key]struct{}),
	}
}

// Session returns the waitress signed in on this device.
func (d *Deduplicator) Session() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

// SetSession switches the signed-in waitress and forgets what was surfaced.
func (d *Deduplicator) SetSession(waitress string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session = strings.TrimSpace(waitress)
	d.seen = make(map[notification.Key]struct{})
}

// Offer surfaces n if it targets the session, is unread and was not surfaced
// before. It reports whether n reached the sink.
func (d *Deduplicator) Offer(ctx context.Context, n *notification.Notification) (bool, error) {
	if err := n.Validate(); err != nil {
		return false, err
	}

	key := n.Key()
	d.mu.Lock()
	if !n.IsFor(d.session) || n.IsRead() {
		d.mu.Unlock()
		return false, nil
	}
	if _, ok := d.seen[key]; ok {
		d.mu.Unlock()
		return false, nil
	}
	d.seen[key] = struct{}{}
	d.mu.Unlock()

	if err := d.sink.Surface(ctx, n); err != nil {
		d.forget(key)
		return false, err
	}
	d.logger.DebugContext(ctx, "Notification surfaced", "notification_id", n.ID().String(), "order_id", n.OrderID())
	return true, nil
}

// Sync offers every unread notification of the session. Failures of single
// notifications are logged and skipped.
func (d *Deduplicator) Sync(ctx context.Context) (int, error) {
	waitress := d.Session()
	if waitress == "" {
		return 0, nil
	}

	unread, err := d.uowFactory.Create().NotificationRepository().ListUnread(ctx, waitress)
	if err != nil {
		return 0, err
	}

	surfaced := 0
	for _, n := range unread {
		ok, err := d.Offer(ctx, n)
		if err != nil {
			d.logger.WarnContext(ctx, "Failed to surface notification", "notification_id", n.ID().String(), "error", err)
			continue
		}
		if ok {
			surfaced++
		}
	}
	return surfaced, nil
}

// Acknowledge marks the notification read in the remote store.
func (d *Deduplicator) Acknowledge(ctx context.Context, id kernel.UUID) error {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	n, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.MarkRead() {
		if err = repo.Update(ctx, n); err != nil {
			return err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	d.remember(n.Key())
	return nil
}

// AcknowledgeOrder marks read every unread notification of the session
// that references orderID. It returns how many were acknowledged.
func (d *Deduplicator) AcknowledgeOrder(ctx context.Context, orderID string) (int, error) {
	waitress := d.Session()

	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	unread, err := repo.ListUnreadByOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	acked := make([]notification.Key, 0, len(unread))
	for _, n := range unread {
		if !n.IsFor(waitress) || !n.MarkRead() {
			continue
		}
		if err = repo.Update(ctx, n); err != nil {
			return 0, err
		}
		acked = append(acked, n.Key())
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for _, key := range acked {
		d.remember(key)
	}
	return len(acked), nil
}

func (d *Deduplicator) remember(key notification.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[key] = struct{}{}
}

func (d *Deduplicator) forget(key notification.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, key)
}
