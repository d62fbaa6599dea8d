package commands

import (
	"context"
	"log/slog"
	"time"

	"transferflow/internal/core/domain/services"
	"transferflow/internal/core/ports"
)

// RollbackActionCommandHandler reverses a completed transfer action.
//
// Locking mirrors execution: workflow row first, then both ledger
// assignments in ascending id order. The reversal is refused when the
// destination's live population no longer covers the transferred fish;
// a later transfer already consumed them and no cascading reversal is
// attempted.
type RollbackActionCommandHandler struct {
	uowFactory UoWFactory
	executor   services.TransferExecutor
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewRollbackActionCommandHandler creates a handler for action rollback.
func NewRollbackActionCommandHandler(
	uowFactory UoWFactory,
	executor services.TransferExecutor,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) RollbackActionCommandHandler {
	return RollbackActionCommandHandler{
		uowFactory: uowFactory,
		executor:   executor,
		publisher:  publisher,
		logger:     logger.With("component", "rollback_action_handler"),
	}
}

// Handle processes the rollback command.
// Valid only while the workflow is InProgress and the action Completed.
// On success the action returns to Pending with its execution record
// cleared, both ledger sides are restored and progress is recomputed.
func (h RollbackActionCommandHandler) Handle(ctx context.Context, cmd RollbackActionCommand) error {
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

	action, err := wf.Action(cmd.ActionID())
	if err != nil {
		return err
	}

	priorStatus := action.Status()

	source, destination, err := lockAssignmentPair(ctx, uow,
		action.SourceAssignmentID(), action.DestinationAssignmentID())
	if err != nil {
		return err
	}

	if err = h.executor.Rollback(wf, action, source, destination, time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.AssignmentRepository().Update(ctx, source); err != nil {
		return err
	}
	if err = uow.AssignmentRepository().Update(ctx, destination); err != nil {
		return err
	}
	if err = uow.WorkflowRepository().Update(ctx, wf); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notification := actionNotification(wf, action, priorStatus, cmd.ActorID().String())
	notifyAsync(h.logger, "audit.action_rolled_back", func(ctx context.Context) error {
		return h.publisher.PublishActionExecuted(ctx, notification)
	})

	return nil
}
