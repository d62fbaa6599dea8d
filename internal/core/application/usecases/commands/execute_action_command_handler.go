package commands

import (
	"context"
	"log/slog"
	"time"

	"transferflow/internal/core/domain/model/assignment"
	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/core/domain/services"
	"transferflow/internal/core/ports"
)

// ExecuteActionCommandHandler executes one pending transfer action.
//
// The handler locks the workflow row first, then both ledger assignments
// in a deterministic id order, so two concurrent executions touching the
// same populations always acquire locks in the same sequence. The ledger
// mutation, the action's execution record and the workflow's progress are
// persisted in a single transaction.
type ExecuteActionCommandHandler struct {
	uowFactory UoWFactory
	executor   services.TransferExecutor
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewExecuteActionCommandHandler creates a handler for action execution.
func NewExecuteActionCommandHandler(
	uowFactory UoWFactory,
	executor services.TransferExecutor,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) ExecuteActionCommandHandler {
	return ExecuteActionCommandHandler{
		uowFactory: uowFactory,
		executor:   executor,
		publisher:  publisher,
		logger:     logger.With("component", "execute_action_handler"),
	}
}

// Handle processes the execution command.
//
// Validation failures (insufficient population, wrong action or workflow
// state) roll the transaction back and leave every record untouched; the
// action stays Pending and may be retried with corrected data. When the
// domain mutation succeeds but persistence fails, the action is marked
// Failed in a separate follow-up transaction so the operator sees a
// retryable failure instead of a silently lost execution.
func (h ExecuteActionCommandHandler) Handle(ctx context.Context, cmd ExecuteActionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	startedAt := time.Now().UTC()

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

	err = h.executor.Execute(wf, action, source, destination, services.ExecutionParams{
		ExecutorID:  cmd.ExecutorID(),
		Mortality:   cmd.Mortality(),
		Method:      cmd.Method(),
		Metadata:    cmd.Metadata(),
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if err = h.persist(ctx, uow, wf, source, destination); err != nil {
		h.markFailed(ctx, cmd.WorkflowID(), cmd.ActionID(), err)
		return err
	}

	notification := actionNotification(wf, action, priorStatus, cmd.ExecutorID().String())
	notifyAsync(h.logger, "finance.action_executed", func(ctx context.Context) error {
		return h.publisher.PublishActionExecuted(ctx, notification)
	})

	return nil
}

func (h ExecuteActionCommandHandler) persist(
	ctx context.Context,
	uow UoW,
	wf *workflow.Workflow,
	source *assignment.Assignment,
	destination *assignment.Assignment,
) error {
	if err := uow.AssignmentRepository().Update(ctx, source); err != nil {
		return err
	}
	if err := uow.AssignmentRepository().Update(ctx, destination); err != nil {
		return err
	}
	if err := uow.WorkflowRepository().Update(ctx, wf); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// markFailed records a persistence failure on the action in a fresh
// transaction. The original transaction already rolled back, so the
// ledger is intact; Failed only signals that the execution attempt must
// be retried. A failure here is logged and swallowed: the caller already
// receives the persistence error.
func (h ExecuteActionCommandHandler) markFailed(
	ctx context.Context,
	workflowID kernel.UUID,
	actionID kernel.UUID,
	cause error,
) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Failed to open follow-up transaction",
			"workflow_id", workflowID, "action_id", actionID, "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	wf, err := uow.WorkflowRepository().GetForUpdate(ctx, workflowID)
	if err == nil {
		var action *transferaction.Action
		if action, err = wf.Action(actionID); err == nil {
			if err = action.MarkFailed(cause.Error()); err == nil {
				if err = uow.WorkflowRepository().Update(ctx, wf); err == nil {
					err = uow.Commit(ctx)
				}
			}
		}
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to mark action as failed",
			"workflow_id", workflowID, "action_id", actionID, "error", err)
	}
}

// lockAssignmentPair acquires exclusive locks on both ledger assignments
// in ascending id order. A fixed acquisition order across all callers
// prevents deadlocks between concurrent executions that touch the same
// assignments in opposite roles.
func lockAssignmentPair(
	ctx context.Context,
	uow AssignmentRepoFactory,
	sourceID kernel.UUID,
	destinationID kernel.UUID,
) (source, destination *assignment.Assignment, err error) {
	repo := uow.AssignmentRepository()

	if sourceID.String() <= destinationID.String() {
		if source, err = repo.GetForUpdate(ctx, sourceID); err != nil {
			return nil, nil, err
		}
		if destination, err = repo.GetForUpdate(ctx, destinationID); err != nil {
			return nil, nil, err
		}
		return source, destination, nil
	}

	if destination, err = repo.GetForUpdate(ctx, destinationID); err != nil {
		return nil, nil, err
	}
	if source, err = repo.GetForUpdate(ctx, sourceID); err != nil {
		return nil, nil, err
	}
	return source, destination, nil
}

// actionNotification builds the collaborator summary for an action state
// change.
func actionNotification(
	wf *workflow.Workflow,
	action *transferaction.Action,
	priorStatus transferaction.Status,
	actorID string,
) ports.ActionNotification {
	return ports.ActionNotification{
		WorkflowID:       wf.ID().String(),
		WorkflowNumber:   wf.Number(),
		ActionID:         action.ID().String(),
		ActionNumber:     action.ActionNumber(),
		Status:           action.Status().String(),
		PriorStatus:      priorStatus.String(),
		TransferredCount: action.TransferredCount(),
		TransferredKg:    action.TransferredBiomassKg(),
		Mortality:        action.MortalityDuringTransfer(),
		IsIntercompany:   wf.IsIntercompany(),
		ActorID:          actorID,
		OccurredAt:       time.Now().UTC(),
	}
}
