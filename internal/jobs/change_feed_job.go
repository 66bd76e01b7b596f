package jobs

import (
	"context"
	"log/slog"
	"sync"

	"tablesync/internal/core/application/pipeline"
	"tablesync/internal/core/domain/model/change"
	"tablesync/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultFeedBatch caps the number of changes fetched per round trip.
const DefaultFeedBatch = 200

// DefaultFeedLookback is how many change IDs below the high-water mark every
// poll re-reads. Change IDs are taken at insert time but become visible at
// commit, so a slow transaction can surface an ID below one already seen.
const DefaultFeedLookback = 128

type cursorSource interface {
	FeedCursor(ctx context.Context) (int64, bool, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, e pipeline.Event) error
}

// ChangeFeedJob polls the remote change feed and publishes every new change
// to the dispatcher. It keeps an in-memory high-water mark plus the IDs
// published inside the lookback window below it; the dispatcher persists the
// cursor once a change has been routed.
type ChangeFeedJob struct {
	feed      ports.ChangeFeed
	cursor    cursorSource
	publisher eventPublisher
	spec      string
	batch     int
	lookback  int64
	cron      *cron.Cron
	logger    *slog.Logger

	mu          sync.Mutex
	initialized bool
	base        int64
	mark        int64
	seen        map[int64]struct{}
}

// NewChangeFeedJob creates the job. spec is a six-field cron expression.
func NewChangeFeedJob(
	feed ports.ChangeFeed,
	cursor cursorSource,
	publisher eventPublisher,
	spec string,
	logger *slog.Logger,
) *ChangeFeedJob {
	return &ChangeFeedJob{
		feed:      feed,
		cursor:    cursor,
		publisher: publisher,
		spec:      spec,
		batch:     DefaultFeedBatch,
		lookback:  DefaultFeedLookback,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "change_feed_job"),
		seen:      make(map[int64]struct{}),
	}
}

func (j *ChangeFeedJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		if _, err := j.Poll(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Change feed poll failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Change feed job started", "spec", j.spec)
	return nil
}

func (j *ChangeFeedJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Change feed job stopped")
}

// Wake polls at once when changeID has not been published yet. It is the
// callback of the Redis listener.
func (j *ChangeFeedJob) Wake(ctx context.Context, changeID int64) {
	j.mu.Lock()
	_, published := j.seen[changeID]
	behind := !j.initialized || (changeID > j.floor() && !published)
	j.mu.Unlock()
	if !behind {
		return
	}
	if _, err := j.Poll(ctx); err != nil {
		j.logger.WarnContext(ctx, "Change feed wake-up poll failed", "change_id", changeID, "error", err)
	}
}

// Poll publishes every change after the lookback floor that was not
// published before and returns how many were published. On a first start
// without a stored cursor the mark starts at the newest change, so history is
// not replayed. The floor never drops below the starting mark.
func (j *ChangeFeedJob) Poll(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.initialized {
		if err := j.initialize(ctx); err != nil {
			return 0, err
		}
	}
	defer j.prune()

	published := 0
	after := j.floor()
	for {
		events, err := j.feed.Changes(ctx, after, j.batch)
		if err != nil {
			return published, err
		}
		for _, e := range events {
			after = e.ID
			if _, ok := j.seen[e.ID]; ok {
				continue
			}
			if err = j.publish(ctx, e); err != nil {
				return published, err
			}
			published++
		}
		if len(events) < j.batch {
			return published, nil
		}
	}
}

func (j *ChangeFeedJob) initialize(ctx context.Context) error {
	stored, ok, err := j.cursor.FeedCursor(ctx)
	if err != nil {
		return err
	}
	if !ok {
		if stored, err = j.feed.Latest(ctx); err != nil {
			return err
		}
		j.logger.InfoContext(ctx, "No feed cursor stored, starting at newest change", "change_id", stored)
	}
	j.base = stored
	j.mark = stored
	j.initialized = true
	return nil
}

func (j *ChangeFeedJob) floor() int64 {
	return max(j.mark-j.lookback, j.base)
}

func (j *ChangeFeedJob) prune() {
	floor := j.floor()
	for id := range j.seen {
		if id <= floor {
			delete(j.seen, id)
		}
	}
}

func (j *ChangeFeedJob) publish(ctx context.Context, e change.Event) error {
	if err := j.publisher.Publish(ctx, pipeline.ChangeEvent{Change: e}); err != nil {
		return err
	}
	j.seen[e.ID] = struct{}{}
	if e.ID > j.mark {
		j.mark = e.ID
	}
	if e.ID < j.mark {
		j.logger.InfoContext(ctx, "Late committed change published", "change_id", e.ID, "mark", j.mark)
	}
	return nil
}
