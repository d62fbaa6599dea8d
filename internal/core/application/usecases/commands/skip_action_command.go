package commands

import (
	"errors"
	"strings"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/errs"
	"transferflow/internal/pkg/guard"
)

var (
	ErrSkipActionCommandIsNotConstructed = errors.New(
		"SkipActionCommand must be created via NewSkipActionCommand constructor",
	)
)

// SkipActionCommand represents a request to skip one pending transfer
// action. A skipped action never touches the population ledger; it counts
// as handled for the workflow's progress.
type SkipActionCommand struct { //nolint:recvcheck //using for validation
	workflowID kernel.UUID
	actionID   kernel.UUID
	actorID    kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewSkipActionCommand creates a command to skip an action.
// The reason is mandatory: a skip without an explanation is an audit gap.
func NewSkipActionCommand(
	workflowID kernel.UUID,
	actionID kernel.UUID,
	actorID kernel.UUID,
	reason string,
) (SkipActionCommand, error) {
	cmd := SkipActionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkflowID(workflowID),
		cmd.setActionID(actionID),
		cmd.setActorID(actorID),
		cmd.setReason(reason),
	); err != nil {
		return SkipActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SkipActionCommand) Validate() error {
	return c.guard.Validate(ErrSkipActionCommandIsNotConstructed)
}

// WorkflowID returns the owning workflow's identifier.
func (c SkipActionCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

// ActionID returns the action to skip.
func (c SkipActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// ActorID returns the identity requesting the skip.
func (c SkipActionCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Reason returns the operator's explanation for the skip.
func (c SkipActionCommand) Reason() string {
	return c.reason
}

func (c *SkipActionCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	c.workflowID = workflowID
	return nil
}

func (c *SkipActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}
	c.actionID = actionID
	return nil
}

func (c *SkipActionCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}
	c.actorID = actorID
	return nil
}

func (c *SkipActionCommand) setReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	c.reason = reason
	return nil
}
