package jobs

import (
	"context"
	"log/slog"
	"time"

	"transferflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OverdueWorkflowJob periodically reports workflows that are still Planned
// past their planned start date. The sweep only observes: overdue
// workflows stay Planned until an operator executes or cancels them.
type OverdueWorkflowJob struct {
	uowFactory commands.WorkflowUoWFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOverdueWorkflowJob creates a job that sweeps for overdue planned workflows.
func NewOverdueWorkflowJob(uowFactory commands.WorkflowUoWFactory, logger *slog.Logger) *OverdueWorkflowJob {
	return &OverdueWorkflowJob{
		uowFactory: uowFactory,
		cron:       cron.New(),
		logger:     logger.With("component", "overdue_workflow_job"),
	}
}

// Start begins the sweep, running once per minute.
func (j *OverdueWorkflowJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", j.sweep)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue workflow job started (running every minute)")
	return nil
}

// Stop stops the sweep.
func (j *OverdueWorkflowJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Overdue workflow job stopped")
}

func (j *OverdueWorkflowJob) sweep() {
	ctx := context.Background()

	// Reads run on the base connection; no transaction is opened.
	uow := j.uowFactory.Create()
	overdue, err := uow.WorkflowRepository().GetAllPlannedBefore(ctx, time.Now().UTC())
	if err != nil {
		j.logger.ErrorContext(ctx, "Overdue workflow sweep failed", "error", err)
		return
	}

	for _, wf := range overdue {
		j.logger.WarnContext(ctx, "Workflow is overdue",
			"workflow_id", wf.ID(),
			"number", wf.Number(),
			"planned_start", wf.PlannedStart(),
		)
	}
}
