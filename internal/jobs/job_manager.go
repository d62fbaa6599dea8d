package jobs

import (
	"fmt"
	"log/slog"

	"transferflow/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	overdueWorkflowJob *OverdueWorkflowJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	uowFactory commands.WorkflowUoWFactory,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		overdueWorkflowJob: NewOverdueWorkflowJob(uowFactory, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueWorkflowJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue workflow job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueWorkflowJob.Stop()
}
