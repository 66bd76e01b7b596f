package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	changeFeedJob       *ChangeFeedJob
	notificationPollJob *NotificationPollJob
}

func NewJobManager(changeFeedJob *ChangeFeedJob, notificationPollJob *NotificationPollJob) *JobManager {
	return &JobManager{
		changeFeedJob:       changeFeedJob,
		notificationPollJob: notificationPollJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.changeFeedJob.Start(); err != nil {
		return fmt.Errorf("failed to start change feed job: %w", err)
	}

	if err := jm.notificationPollJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.changeFeedJob.Stop()
		return fmt.Errorf("failed to start notification poll job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running polls to finish.
func (jm *JobManager) StopAll() {
	jm.notificationPollJob.Stop()
	jm.changeFeedJob.Stop()
}
