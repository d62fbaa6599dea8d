package commands

import (
	"context"
	"log/slog"
	"time"

	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/core/ports"
)

// PlanWorkflowCommandHandler freezes a workflow's action plan.
// After the transaction commits, the finance collaborator is notified of
// the planned workflow together with its advisory intercompany flag.
type PlanWorkflowCommandHandler struct {
	uowFactory WorkflowUoWFactory
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewPlanWorkflowCommandHandler creates a handler for workflow planning.
func NewPlanWorkflowCommandHandler(
	uowFactory WorkflowUoWFactory,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) PlanWorkflowCommandHandler {
	return PlanWorkflowCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "plan_workflow_handler"),
	}
}

// Handle processes the planning command.
// Transitions Draft -> Planned; fails with WorkflowHasNoActions when the
// workflow owns no actions, leaving it in Draft. Notification failure
// never affects the committed transition.
func (h PlanWorkflowCommandHandler) Handle(ctx context.Context, cmd PlanWorkflowCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	wf, err := uow.WorkflowRepository().GetForUpdate(ctx, cmd.WorkflowID())
	if err != nil {
		return err
	}

	if err = wf.Plan(); err != nil {
		return err
	}

	if err = uow.WorkflowRepository().Update(ctx, wf); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notification := workflowNotification(wf, wf.InitiatorID().String())
	notifyAsync(h.logger, "finance.workflow_planned", func(ctx context.Context) error {
		return h.publisher.PublishWorkflowPlanned(ctx, notification)
	})

	return nil
}

// workflowNotification builds the collaborator summary for a workflow
// state change.
func workflowNotification(wf *workflow.Workflow, actorID string) ports.WorkflowNotification {
	return ports.WorkflowNotification{
		WorkflowID:     wf.ID().String(),
		WorkflowNumber: wf.Number(),
		BatchID:        wf.BatchID().String(),
		Kind:           wf.Kind().String(),
		Status:         wf.Status().String(),
		IsIntercompany: wf.IsIntercompany(),
		ActorID:        actorID,
		OccurredAt:     time.Now().UTC(),
	}
}
