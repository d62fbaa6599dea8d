package commands

import (
	"errors"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/guard"
)

var (
	ErrPlanWorkflowCommandIsNotConstructed = errors.New(
		"PlanWorkflowCommand must be created via NewPlanWorkflowCommand constructor",
	)
)

// PlanWorkflowCommand represents a request to freeze a workflow's action
// plan, transitioning it from Draft to Planned. Fails with
// WorkflowHasNoActions when no actions were added.
type PlanWorkflowCommand struct { //nolint:recvcheck //using for validation
	workflowID kernel.UUID

	guard guard.ConstructorGuard
}

// NewPlanWorkflowCommand creates a command to plan the given workflow.
func NewPlanWorkflowCommand(workflowID kernel.UUID) (PlanWorkflowCommand, error) {
	cmd := PlanWorkflowCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setWorkflowID(workflowID); err != nil {
		return PlanWorkflowCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlanWorkflowCommand) Validate() error {
	return c.guard.Validate(ErrPlanWorkflowCommandIsNotConstructed)
}

// WorkflowID returns the workflow to plan.
func (c PlanWorkflowCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

func (c *PlanWorkflowCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	c.workflowID = workflowID
	return nil
}
