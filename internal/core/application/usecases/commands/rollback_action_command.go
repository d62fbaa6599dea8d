package commands

import (
	"errors"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/guard"
)

var (
	ErrRollbackActionCommandIsNotConstructed = errors.New(
		"RollbackActionCommand must be created via NewRollbackActionCommand constructor",
	)
)

// RollbackActionCommand represents a request to reverse one completed
// transfer action: return the fish to the source assignment, draw them
// back out of the destination and clear the action's execution record.
type RollbackActionCommand struct { //nolint:recvcheck //using for validation
	workflowID kernel.UUID
	actionID   kernel.UUID
	actorID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewRollbackActionCommand creates a command to roll back an action.
func NewRollbackActionCommand(
	workflowID kernel.UUID,
	actionID kernel.UUID,
	actorID kernel.UUID,
) (RollbackActionCommand, error) {
	cmd := RollbackActionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkflowID(workflowID),
		cmd.setActionID(actionID),
		cmd.setActorID(actorID),
	); err != nil {
		return RollbackActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RollbackActionCommand) Validate() error {
	return c.guard.Validate(ErrRollbackActionCommandIsNotConstructed)
}

// WorkflowID returns the owning workflow's identifier.
func (c RollbackActionCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

// ActionID returns the action to roll back.
func (c RollbackActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// ActorID returns the identity requesting the reversal.
func (c RollbackActionCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c *RollbackActionCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	c.workflowID = workflowID
	return nil
}

func (c *RollbackActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}
	c.actionID = actionID
	return nil
}

func (c *RollbackActionCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	c.actorID = actorID
	return nil
}
