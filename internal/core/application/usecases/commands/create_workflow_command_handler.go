package commands

import (
	"context"

	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/core/ports"
)

// CreateWorkflowCommandHandler handles the business logic for opening a
// transfer workflow. Obtains a unique, year-scoped workflow number from
// the numbering service and persists the workflow in Draft status.
//
// Example:
//
//	handler := NewCreateWorkflowCommandHandler(uowFactory, numbering)
//	cmd, _ := NewCreateWorkflowCommand(id, batchID, kind, src, dst, start, initiator)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("workflow creation failed: %w", err)
//	}
//	// Workflow is now in Draft and ready for action planning
type CreateWorkflowCommandHandler struct {
	uowFactory WorkflowUoWFactory
	numbering  ports.NumberingService
}

// NewCreateWorkflowCommandHandler creates a handler for workflow creation.
// Requires a WorkflowUoWFactory for transactional persistence and a
// NumberingService for unique workflow numbers.
func NewCreateWorkflowCommandHandler(
	uowFactory WorkflowUoWFactory,
	numbering ports.NumberingService,
) CreateWorkflowCommandHandler {
	return CreateWorkflowCommandHandler{
		uowFactory: uowFactory,
		numbering:  numbering,
	}
}

// Handle processes the workflow creation command.
// The workflow number comes from the numbering service's atomic
// increment; a failed creation may leave a gap in the sequence but never
// a duplicate. The intercompany flag is derived from the stage references.
func (h CreateWorkflowCommandHandler) Handle(ctx context.Context, cmd CreateWorkflowCommand) error {
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

	number, err := h.numbering.Next(ctx, cmd.PlannedStart().Year())
	if err != nil {
		return err
	}

	wf, err := workflow.NewWorkflow(
		cmd.WorkflowID(),
		number,
		cmd.BatchID(),
		cmd.Kind(),
		cmd.SourceStage(),
		cmd.DestinationStage(),
		cmd.PlannedStart(),
		cmd.InitiatorID(),
	)
	if err != nil {
		return err
	}

	if err = uow.WorkflowRepository().Add(ctx, wf); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
