package commands

import (
	"context"
)

// CancelWorkflowCommandHandler abandons a workflow.
// An execute already past its lock-acquisition point in another
// transaction is unaffected: it completes normally, and this cancel
// either waits for the workflow row lock or the other transaction does.
type CancelWorkflowCommandHandler struct {
	uowFactory WorkflowUoWFactory
}

// NewCancelWorkflowCommandHandler creates a handler for workflow cancellation.
func NewCancelWorkflowCommandHandler(uowFactory WorkflowUoWFactory) CancelWorkflowCommandHandler {
	return CancelWorkflowCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
// Transitions Draft/Planned/InProgress -> Cancelled with the recorded
// reason; a StateTransitionError is returned for terminal workflows.
// Pending actions become permanently non-executable because the execute
// precondition re-checks workflow status under the same lock.
func (h CancelWorkflowCommandHandler) Handle(ctx context.Context, cmd CancelWorkflowCommand) error {
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

	if err = wf.Cancel(cmd.Reason()); err != nil {
		return err
	}

	if err = uow.WorkflowRepository().Update(ctx, wf); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
