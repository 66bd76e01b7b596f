package commands_test

import (
	"context"
	"slices"
	"sync"

	"tablesync/internal/core/application/usecases/commands"
	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/core/domain/model/order"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/core/ports"
	"tablesync/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]*order.Order)
	return list, args.Error(1)
}

func (m *MockOrderRepository) DistinctWaitresses(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]string)
	return list, args.Error(1)
}

func (m *MockOrderRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*notification.Notification)
	return n, args.Error(1)
}

func (m *MockNotificationRepository) ListUnread(ctx context.Context, waitress string) ([]*notification.Notification, error) {
	args := m.Called(ctx, waitress)
	list, _ := args.Get(0).([]*notification.Notification)
	return list, args.Error(1)
}

func (m *MockNotificationRepository) ListUnreadByOrder(ctx context.Context, orderID string) ([]*notification.Notification, error) {
	args := m.Called(ctx, orderID)
	list, _ := args.Get(0).([]*notification.Notification)
	return list, args.Error(1)
}

func (m *MockNotificationRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPrintEnqueuer struct{ mock.Mock }

func (m *MockPrintEnqueuer) Enqueue(ctx context.Context, o *order.Order) (*printjob.PrintJob, error) {
	args := m.Called(ctx, o)
	job, _ := args.Get(0).(*printjob.PrintJob)
	return job, args.Error(1)
}

// memoryStore is a committed-on-write stand-in for the remote store, used by
// the scenario tests that chain several commands.
type memoryStore struct {
	mu            sync.Mutex
	orders        []*order.Order
	notifications []*notification.Notification
}

func (s *memoryStore) Create() commands.UoW                   { return s }
func (s *memoryStore) Begin(context.Context) error            { return nil }
func (s *memoryStore) Commit(context.Context) error           { return nil }
func (s *memoryStore) Rollback(context.Context) error         { return nil }
func (s *memoryStore) OrderRepository() ports.OrderRepository { return (*memoryOrders)(s) }
func (s *memoryStore) NotificationRepository() ports.NotificationRepository {
	return (*memoryNotifications)(s)
}

type orderUoWFactory struct{ store *memoryStore }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.store }

type memoryOrders memoryStore

func (r *memoryOrders) Add(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return nil
}

func (r *memoryOrders) Update(context.Context, *order.Order) error { return nil }

func (r *memoryOrders) Get(_ context.Context, id kernel.OrderID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID().IsEqual(id) {
			return o, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("order", id.String())
}

func (r *memoryOrders) List(_ context.Context, f ports.OrderFilter) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*order.Order
	for _, o := range r.orders {
		if f.Table != "" && o.Table().Name != f.Table {
			continue
		}
		if f.Kind != kernel.UnknownKind && o.Kind() != f.Kind {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status()) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *memoryOrders) DistinctWaitresses(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, o := range r.orders {
		if !slices.Contains(names, o.Waitress()) {
			names = append(names, o.Waitress())
		}
	}
	slices.Sort(names)
	return names, nil
}

func (r *memoryOrders) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.orders))
	r.orders = nil
	return n, nil
}

type memoryNotifications memoryStore

func (r *memoryNotifications) Add(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *memoryNotifications) Update(context.Context, *notification.Notification) error { return nil }

func (r *memoryNotifications) Get(_ context.Context, id kernel.UUID) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID().IsEqual(id) {
			return n, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("notification", id.String())
}

func (r *memoryNotifications) ListUnread(_ context.Context, waitress string) ([]*notification.Notification, error) {
	return r.filter(func(n *notification.Notification) bool { return n.IsFor(waitress) }), nil
}

func (r *memoryNotifications) ListUnreadByOrder(_ context.Context, orderID string) ([]*notification.Notification, error) {
	return r.filter(func(n *notification.Notification) bool { return n.OrderID() == orderID }), nil
}

func (r *memoryNotifications) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.notifications))
	r.notifications = nil
	return n, nil
}

func (r *memoryNotifications) filter(keep func(*notification.Notification) bool) []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, n := range r.notifications {
		if !n.IsRead() && keep(n) {
			out = append(out, n)
		}
	}
	return out
}

type MockDrainRequester struct{ mock.Mock }

func (m *MockDrainRequester) RequestDrain(ctx context.Context) {
	m.Called(ctx)
}
