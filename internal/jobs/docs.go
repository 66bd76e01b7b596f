// Package jobs provides scheduled background tasks for a tablesync device.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Jobs never act on changes themselves: they only publish events to the
// pipeline dispatcher, which handles them on its own goroutine.
//
// # Available Jobs
//
// 1. ChangeFeedJob - Polls the remote change feed (every second by default) and publishes each new change
// 2. NotificationPollJob - Publishes a PollTick so unread notifications are resynced
//
// # Usage
//
//	jobManager := jobs.NewJobManager(feedJob, pollJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions with a seconds field, e.g.
// "* * * * * *" for every second or "*/5 * * * * *" for every five seconds.
//
// # Error Handling
//
// - A failed feed poll is logged; the high-water mark only moves past published changes, so the next poll retries
// - A poll tick that cannot be queued within a second is dropped and logged
// - Failed job starts will stop any already running jobs
package jobs
