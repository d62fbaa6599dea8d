package commands

import (
	"context"
	"log/slog"
	"time"

	"transferflow/internal/core/ports"
	"transferflow/internal/pkg/errs"
)

// SkipActionCommandHandler skips a pending transfer action.
// Skipping records the reason and counts the action as handled for
// progress; the population ledger is never touched.
type SkipActionCommandHandler struct {
	uowFactory WorkflowUoWFactory
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewSkipActionCommandHandler creates a handler for skipping actions.
func NewSkipActionCommandHandler(
	uowFactory WorkflowUoWFactory,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) SkipActionCommandHandler {
	return SkipActionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "skip_action_handler"),
	}
}

// Handle processes the skip command.
// Valid only while the workflow is Planned or InProgress and the action
// is Pending. Progress is recomputed with the skipped action counting as
// handled, which may auto-complete an in-progress workflow.
func (h SkipActionCommandHandler) Handle(ctx context.Context, cmd SkipActionCommand) error {
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
		return errs.NewStateTransitionError("workflow", "skip action", wf.Status().String())
	}

	action, err := wf.Action(cmd.ActionID())
	if err != nil {
		return err
	}

	priorStatus := action.Status()

	if err = action.Skip(cmd.Reason()); err != nil {
		return err
	}

	if err = wf.RecomputeProgress(time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.WorkflowRepository().Update(ctx, wf); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notification := actionNotification(wf, action, priorStatus, cmd.ActorID().String())
	notifyAsync(h.logger, "audit.action_skipped", func(ctx context.Context) error {
		return h.publisher.PublishActionExecuted(ctx, notification)
	})

	return nil
}
