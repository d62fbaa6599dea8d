package commands

import (
	"context"
)

// AddActionCommandHandler handles action planning for Draft workflows.
// Loads the workflow under an exclusive lock so that concurrent planners
// receive contiguous action numbers, snapshots the live source population
// for advisory display, and appends the action to the aggregate.
type AddActionCommandHandler struct {
	uowFactory UoWFactory
}

// NewAddActionCommandHandler creates a handler for action planning.
// Requires a UoWFactory covering both the workflow and the ledger, since
// the advisory snapshot reads the live source assignment.
func NewAddActionCommandHandler(uowFactory UoWFactory) AddActionCommandHandler {
	return AddActionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the action planning command.
// Valid only while the workflow is Draft; the aggregate rejects the
// operation with a StateTransitionError otherwise. The recorded source
// population snapshot is advisory: execution re-validates against the
// live ledger state.
func (h AddActionCommandHandler) Handle(ctx context.Context, cmd AddActionCommand) error {
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

	source, err := uow.AssignmentRepository().Get(ctx, cmd.SourceAssignmentID())
	if err != nil {
		return err
	}

	if _, err = wf.AddAction(
		cmd.ActionID(),
		cmd.SourceAssignmentID(),
		cmd.DestinationAssignmentID(),
		cmd.TransferredCount(),
		cmd.TransferredBiomassKg(),
		source.Count(),
	); err != nil {
		return err
	}

	if err = uow.WorkflowRepository().Update(ctx, wf); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
