package commands

import (
	"errors"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/guard"
)

var (
	ErrRetryActionCommandIsNotConstructed = errors.New(
		"RetryActionCommand must be created via NewRetryActionCommand constructor",
	)
)

// RetryActionCommand represents a request to return a failed transfer
// action to Pending so that it can be executed again. The prior failure
// reason stays on the record for the audit trail.
type RetryActionCommand struct { //nolint:recvcheck //using for validation
	workflowID kernel.UUID
	actionID   kernel.UUID
	actorID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewRetryActionCommand creates a command to retry a failed action.
func NewRetryActionCommand(
	workflowID kernel.UUID,
	actionID kernel.UUID,
	actorID kernel.UUID,
) (RetryActionCommand, error) {
	cmd := RetryActionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkflowID(workflowID),
		cmd.setActionID(actionID),
		cmd.setActorID(actorID),
	); err != nil {
		return RetryActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RetryActionCommand) Validate() error {
	return c.guard.Validate(ErrRetryActionCommandIsNotConstructed)
}

// WorkflowID returns the owning workflow's identifier.
func (c RetryActionCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

// ActionID returns the action to retry.
func (c RetryActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// ActorID returns the identity requesting the retry.
func (c RetryActionCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *RetryActionCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	c.workflowID = workflowID
	return nil
}

func (c *RetryActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}
	c.actionID = actionID
	return nil
}

func (c *RetryActionCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	c.actorID = actorID
	return nil
}
