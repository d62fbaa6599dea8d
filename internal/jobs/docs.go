// Package jobs provides scheduled background tasks for the transfer engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations around transfer workflows.
//
// # Available Jobs
//
// 1. OverdueWorkflowJob - Runs every minute to report workflows still
// Planned past their planned start date
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(uowFactory, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The overdue sweep logs failures and keeps running; a single failed
//   sweep never stops the schedule
// - Failed job starts will stop any already running jobs
package jobs
