package jobs

import (
	"context"
	"log/slog"
	"time"

	"tablesync/internal/core/application/pipeline"

	"github.com/robfig/cron/v3"
)

// NotificationPollJob periodically asks the dispatcher to resync unread
// notifications, covering changes the feed may have missed.
type NotificationPollJob struct {
	publisher eventPublisher
	spec      string
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewNotificationPollJob(publisher eventPublisher, spec string, logger *slog.Logger) *NotificationPollJob {
	return &NotificationPollJob{
		publisher: publisher,
		spec:      spec,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "notification_poll_job"),
	}
}

func (j *NotificationPollJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification poll job started", "spec", j.spec)
	return nil
}

func (j *NotificationPollJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification poll job stopped")
}

// tick gives up when the dispatcher stays busy; the next tick retries.
func (j *NotificationPollJob) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := j.publisher.Publish(ctx, pipeline.PollTick{}); err != nil {
		j.logger.WarnContext(ctx, "Notification poll skipped", "error", err)
	}
}
