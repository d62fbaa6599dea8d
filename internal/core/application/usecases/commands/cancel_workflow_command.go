package commands

import (
	"errors"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/guard"
)

var (
	ErrCancelWorkflowCommandIsNotConstructed = errors.New(
		"CancelWorkflowCommand must be created via NewCancelWorkflowCommand constructor",
	)
	ErrCancelReasonIsRequired = errors.New("cancel reason is required")
)

// CancelWorkflowCommand represents a request to abandon a workflow.
// Valid from Draft, Planned and InProgress; cancellation is terminal and
// makes any pending actions permanently non-executable.
type CancelWorkflowCommand struct { //nolint:recvcheck //using for validation
	workflowID kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewCancelWorkflowCommand creates a command to cancel the given workflow.
// The reason must be non-empty.
func NewCancelWorkflowCommand(workflowID kernel.UUID, reason string) (CancelWorkflowCommand, error) {
	cmd := CancelWorkflowCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkflowID(workflowID),
		cmd.setReason(reason),
	); err != nil {
		return CancelWorkflowCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelWorkflowCommand) Validate() error {
	return c.guard.Validate(ErrCancelWorkflowCommandIsNotConstructed)
}

// WorkflowID returns the workflow to cancel.
func (c CancelWorkflowCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

// Reason returns the operator-supplied cancellation reason.
func (c CancelWorkflowCommand) Reason() string {
	return c.reason
}

func (c *CancelWorkflowCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	c.workflowID = workflowID
	return nil
}

func (c *CancelWorkflowCommand) setReason(reason string) error {
	if reason == "" {
		return ErrCancelReasonIsRequired
	}
	c.reason = reason
	return nil
}
