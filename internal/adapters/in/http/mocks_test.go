package http

import (
	"context"

	"tablesync/internal/core/application/usecases/commands"
	"tablesync/internal/core/application/usecases/queries"
	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/notification"
	"tablesync/internal/core/domain/model/printjob"

	"github.com/stretchr/testify/mock"
)

type MockCartSubmitter struct{ mock.Mock }

func (m *MockCartSubmitter) Handle(ctx context.Context, cmd commands.SubmitCartCommand) (commands.SubmitCartResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.SubmitCartResult), args.Error(1)
}

type MockStatusPromoter struct{ mock.Mock }

func (m *MockStatusPromoter) Handle(
	ctx context.Context,
	cmd commands.PromoteStatusCommand,
) (commands.PromoteStatusResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.PromoteStatusResult), args.Error(1)
}

type MockWaitressCaller struct{ mock.Mock }

func (m *MockWaitressCaller) Handle(
	ctx context.Context,
	cmd commands.CallWaitressCommand,
) ([]*notification.Notification, error) {
	args := m.Called(ctx, cmd)
	created, _ := args.Get(0).([]*notification.Notification)
	return created, args.Error(1)
}

type MockSystemResetter struct{ mock.Mock }

func (m *MockSystemResetter) Handle(ctx context.Context) (commands.ResetSystemResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(commands.ResetSystemResult), args.Error(1)
}

type MockActiveOrders struct{ mock.Mock }

func (m *MockActiveOrders) Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.ActiveOrder, error) {
	args := m.Called(ctx, query)
	orders, _ := args.Get(0).([]queries.ActiveOrder)
	return orders, args.Error(1)
}

type MockUnreadNotifications struct{ mock.Mock }

func (m *MockUnreadNotifications) Handle(
	ctx context.Context,
	query queries.GetUnreadNotificationsQuery,
) ([]queries.UnreadNotification, error) {
	args := m.Called(ctx, query)
	unread, _ := args.Get(0).([]queries.UnreadNotification)
	return unread, args.Error(1)
}

type MockPrintQueue struct{ mock.Mock }

func (m *MockPrintQueue) Retry(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*printjob.PrintJob)
	return job, args.Error(1)
}

func (m *MockPrintQueue) Reprint(ctx context.Context, id kernel.UUID) (*printjob.PrintJob, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*printjob.PrintJob)
	return job, args.Error(1)
}

func (m *MockPrintQueue) Clear(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPrintQueue) Queue(ctx context.Context) ([]*printjob.PrintJob, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]*printjob.PrintJob)
	return jobs, args.Error(1)
}

func (m *MockPrintQueue) Jobs(ctx context.Context) ([]*printjob.PrintJob, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]*printjob.PrintJob)
	return jobs, args.Error(1)
}

type MockElection struct{ mock.Mock }

func (m *MockElection) SetPrintingDevice(ctx context.Context, enabled bool) error {
	return m.Called(ctx, enabled).Error(0)
}

func (m *MockElection) IsPrintingDevice(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type MockSession struct{ mock.Mock }

func (m *MockSession) Session() string {
	return m.Called().String(0)
}

func (m *MockSession) SetSession(waitress string) {
	m.Called(waitress)
}

func (m *MockSession) Acknowledge(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSession) AcknowledgeOrder(ctx context.Context, orderID string) (int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Error(1)
}

// memorySettings is an in-memory ports.DeviceSettings.
type memorySettings struct {
	printing bool
	policy   printjob.Policy
	cursor   *int64
	options  []string
}

func (s *memorySettings) IsPrintingDevice(context.Context) (bool, error) { return s.printing, nil }

func (s *memorySettings) SetPrintingDevice(_ context.Context, enabled bool) error {
	s.printing = enabled
	return nil
}

func (s *memorySettings) AutoPrintPolicy(context.Context) (printjob.Policy, error) {
	if s.policy == "" {
		return printjob.DefaultPolicy, nil
	}
	return s.policy, nil
}

func (s *memorySettings) SetAutoPrintPolicy(_ context.Context, policy printjob.Policy) error {
	s.policy = policy
	return nil
}

func (s *memorySettings) FeedCursor(context.Context) (int64, bool, error) {
	if s.cursor == nil {
		return 0, false, nil
	}
	return *s.cursor, true, nil
}

func (s *memorySettings) SetFeedCursor(_ context.Context, id int64) error {
	s.cursor = &id
	return nil
}

func (s *memorySettings) CookingOptions(context.Context) ([]string, error) {
	return s.options, nil
}

func (s *memorySettings) SetCookingOptions(_ context.Context, options []string) error {
	s.options = options
	return nil
}
