package commands

import (
	"context"

	"transferflow/internal/pkg/errs"
)

// RetryActionCommandHandler returns a failed transfer action to Pending.
// Retry touches no ledger state; the next execution re-validates against
// the live ledger as if the action had never been attempted.
type RetryActionCommandHandler struct {
	uowFactory WorkflowUoWFactory
}

// NewRetryActionCommandHandler creates a handler for retrying actions.
func NewRetryActionCommandHandler(uowFactory WorkflowUoWFactory) RetryActionCommandHandler {
	return RetryActionCommandHandler{uowFactory: uowFactory}
}

// Handle processes the retry command.
// Valid only while the workflow is Planned or InProgress and the action
// is Failed. The failure reason is kept on the record.
func (h RetryActionCommandHandler) Handle(ctx context.Context, cmd RetryActionCommand) error {
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

	if !wf.Status().IsExecutable() {
		return errs.NewStateTransitionError("workflow", "retry action", wf.Status().String())
	}

	action, err := wf.Action(cmd.ActionID())
	if err != nil {
		return err
	}

	if err = action.Retry(); err != nil {
		return err
	}

	if err = uow.WorkflowRepository().Update(ctx, wf); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
