package jobs

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"tablesync/internal/core/application/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationPollJob_TickPublishesPollTick(t *testing.T) {
	publisher := &MockPublisher{}
	publisher.On("Publish", mock.Anything, pipeline.PollTick{}).Return(nil).Once()
	publisher.On("Publish", mock.Anything, pipeline.PollTick{}).Return(errors.New("context deadline exceeded")).Once()
	job := NewNotificationPollJob(publisher, "*/5 * * * * *", slog.New(slog.NewTextHandler(io.Discard, nil)))

	job.tick()
	assert.NotPanics(t, job.tick)

	publisher.AssertExpectations(t)
}

func TestJobManager_StartRejectsInvalidSpec(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	feedJob := NewChangeFeedJob(&MockChangeFeed{}, &MockCursor{}, &MockPublisher{}, "not a cron spec", logger)
	pollJob := NewNotificationPollJob(&MockPublisher{}, "* * * * * *", logger)

	err := NewJobManager(feedJob, pollJob).StartAll()

	assert.ErrorContains(t, err, "change feed job")
}
