package printing_test

import (
	"context"
	"sort"
	"sync"

	"tablesync/internal/core/domain/model/kernel"
	"tablesync/internal/core/domain/model/printjob"
	"tablesync/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

// memoryQueue mirrors the durable queue contract: one regular job per order,
// conditional processed flag, errors stored per job.
type memoryQueue struct {
	mu   sync.Mutex
	jobs []*printjob.PrintJob
}

func (q *memoryQueue) Append(_ context.Context, job *printjob.PrintJob) (*printjob.PrintJob, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if job.ReprintOf() == nil {
		for _, existing := range q.jobs {
			if existing.ReprintOf() == nil && existing.OrderID() == job.OrderID() {
				return existing, false, nil
			}
		}
	}
	q.jobs = append(q.jobs, job)
	return job, true, nil
}

func (q *memoryQueue) Get(_ context.Context, id kernel.UUID) (*printjob.PrintJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, j := range q.jobs {
		if j.ID().IsEqual(id) {
			return j, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("print job", id.String())
}

func (q *memoryQueue) List(_ context.Context) ([]*printjob.PrintJob, error) {
	return q.filter(func(*printjob.PrintJob) bool { return true }), nil
}

func (q *memoryQueue) ListPending(_ context.Context) ([]*printjob.PrintJob, error) {
	return q.filter((*printjob.PrintJob).IsAutoPrintable), nil
}

func (q *memoryQueue) ListFailed(_ context.Context) ([]*printjob.PrintJob, error) {
	return q.filter((*printjob.PrintJob).HasErrors), nil
}

func (q *memoryQueue) MarkProcessed(_ context.Context, job *printjob.PrintJob) (bool, error) {
	return job.IsProcessed(), nil
}

func (q *memoryQueue) AppendError(_ context.Context, _ *printjob.PrintJob, _ printjob.ErrorRecord) error {
	return nil
}

func (q *memoryQueue) Clear(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := int64(len(q.jobs))
	q.jobs = nil
	return n, nil
}

func (q *memoryQueue) filter(keep func(*printjob.PrintJob) bool) []*printjob.PrintJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*printjob.PrintJob, 0, len(q.jobs))
	for _, j := range q.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt().Before(out[b].CreatedAt()) })
	return out
}

type memorySettings struct {
	mu       sync.Mutex
	printing bool
	policy   printjob.Policy
	cursor   *int64
	cooking  []string
}

func (s *memorySettings) IsPrintingDevice(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.printing, nil
}

func (s *memorySettings) SetPrintingDevice(_ context.Context, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printing = enabled
	return nil
}

func (s *memorySettings) AutoPrintPolicy(context.Context) (printjob.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.policy == "" {
		return printjob.DefaultPolicy, nil
	}
	return s.policy, nil
}

func (s *memorySettings) SetAutoPrintPolicy(_ context.Context, p printjob.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
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

func (s *memorySettings) CookingOptions(context.Context) ([]string, error) { return s.cooking, nil }

func (s *memorySettings) SetCookingOptions(_ context.Context, options []string) error {
	s.cooking = options
	return nil
}

type MockPrinter struct{ mock.Mock }

func (m *MockPrinter) Print(ctx context.Context, ticket string) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

type MockDrainRequester struct{ mock.Mock }

func (m *MockDrainRequester) RequestDrain(ctx context.Context) {
	m.Called(ctx)
}
