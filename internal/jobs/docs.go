// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// StalledOrderJob - sweeps for orders stuck in an in-flight status, either waiting on
// the validation or allocation service or left behind by a failed publish, and logs a
// warning for each one. The sweep observes only; it never changes
// an order.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(stalledJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		return fmt.Errorf("start jobs: %w", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax with seconds, e.g. "*/30 * * * * *".
package jobs
