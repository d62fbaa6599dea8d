package commands

import (
	"errors"
	"fmt"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/pkg/errs"
	"transferflow/internal/pkg/guard"
)

var (
	ErrExecuteActionCommandIsNotConstructed = errors.New(
		"ExecuteActionCommand must be created via NewExecuteActionCommand constructor",
	)
)

// ExecuteActionCommand represents a request to execute one pending
// transfer action: move the planned fish count and biomass from the
// source assignment to the destination, recording mortality, the
// physical method and opaque execution metadata.
//
// Example:
//
//	cmd, err := NewExecuteActionCommand(
//	    workflowID, actionID, operatorID, 10, transferaction.Pump,
//	    map[string]any{"water_temp_c": 8.4, "oxygen_mg_l": 9.1},
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid execution data: %w", err)
//	}
//
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInsufficientSourcePopulation):
//	    // demand exceeded the live source count; nothing changed
//	case errors.Is(err, errs.ErrStateTransition):
//	    // action already handled, or workflow not executable
//	}
type ExecuteActionCommand struct { //nolint:recvcheck //using for validation
	workflowID kernel.UUID
	actionID   kernel.UUID
	executorID kernel.UUID
	mortality  int
	method     transferaction.Method
	metadata   map[string]any

	guard guard.ConstructorGuard
}

// NewExecuteActionCommand creates a command to execute a transfer action.
// Mortality must not be negative and the method must be valid; metadata
// is opaque and may be nil.
func NewExecuteActionCommand(
	workflowID kernel.UUID,
	actionID kernel.UUID,
	executorID kernel.UUID,
	mortality int,
	method transferaction.Method,
	metadata map[string]any,
) (ExecuteActionCommand, error) {
	cmd := ExecuteActionCommand{
		metadata: metadata,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkflowID(workflowID),
		cmd.setActionID(actionID),
		cmd.setExecutorID(executorID),
		cmd.setMortality(mortality),
		cmd.setMethod(method),
	); err != nil {
		return ExecuteActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ExecuteActionCommand) Validate() error {
	return c.guard.Validate(ErrExecuteActionCommandIsNotConstructed)
}

// WorkflowID returns the owning workflow's identifier.
func (c ExecuteActionCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

// ActionID returns the action to execute.
func (c ExecuteActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// ExecutorID returns the identity performing the transfer.
func (c ExecuteActionCommand) ExecutorID() kernel.UUID {
	return c.executorID
}

// Mortality returns the count lost during the transfer.
func (c ExecuteActionCommand) Mortality() int {
	return c.mortality
}

// Method returns the physical transfer technique.
func (c ExecuteActionCommand) Method() transferaction.Method {
	return c.method
}

// Metadata returns the opaque execution metadata, may be nil.
func (c ExecuteActionCommand) Metadata() map[string]any {
	return c.metadata
}

func (c *ExecuteActionCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	c.workflowID = workflowID
	return nil
}

func (c *ExecuteActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}
	c.actionID = actionID
	return nil
}

func (c *ExecuteActionCommand) setExecutorID(executorID kernel.UUID) error {
	if err := executorID.Validate(); err != nil {
		return err
	}
	c.executorID = executorID
	return nil
}

func (c *ExecuteActionCommand) setMortality(mortality int) error {
	if mortality < 0 {
		return errs.NewValueIsInvalidErrorWithCause("mortality is invalid",
			fmt.Errorf("%d is not greater than or equal to 0", mortality))
	}
	c.mortality = mortality
	return nil
}

func (c *ExecuteActionCommand) setMethod(method transferaction.Method) error {
	if err := method.Validate(); err != nil {
		return err
	}
	c.method = method
	return nil
}
