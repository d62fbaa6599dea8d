package commands

import (
	"errors"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/errs"
	"transferflow/internal/pkg/guard"
)

var (
	ErrAddActionCommandIsNotConstructed = errors.New(
		"AddActionCommand must be created via NewAddActionCommand constructor",
	)
)

// AddActionCommand represents a request to plan one atomic
// container-to-container movement within a Draft workflow. The action
// receives the next contiguous action number during handling, and a live
// snapshot of the source population is recorded for advisory display.
type AddActionCommand struct { //nolint:recvcheck //using for validation
	workflowID              kernel.UUID
	actionID                kernel.UUID
	sourceAssignmentID      kernel.UUID
	destinationAssignmentID kernel.UUID
	transferredCount        int
	transferredBiomassKg    float64

	guard guard.ConstructorGuard
}

// NewAddActionCommand creates a command to plan a transfer action.
// Validates all identifiers and requires positive transfer quantities.
func NewAddActionCommand(
	workflowID kernel.UUID,
	actionID kernel.UUID,
	sourceAssignmentID kernel.UUID,
	destinationAssignmentID kernel.UUID,
	transferredCount int,
	transferredBiomassKg float64,
) (AddActionCommand, error) {
	cmd := AddActionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkflowID(workflowID),
		cmd.setActionID(actionID),
		cmd.setAssignments(sourceAssignmentID, destinationAssignmentID),
		cmd.setQuantities(transferredCount, transferredBiomassKg),
	); err != nil {
		return AddActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddActionCommand) Validate() error {
	return c.guard.Validate(ErrAddActionCommandIsNotConstructed)
}

// WorkflowID returns the owning workflow's identifier.
func (c AddActionCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

// ActionID returns the unique identifier for the new action.
func (c AddActionCommand) ActionID() kernel.UUID {
	return c.actionID
}

// SourceAssignmentID returns the population assignment fish leave.
func (c AddActionCommand) SourceAssignmentID() kernel.UUID {
	return c.sourceAssignmentID
}

// DestinationAssignmentID returns the population assignment fish enter.
func (c AddActionCommand) DestinationAssignmentID() kernel.UUID {
	return c.destinationAssignmentID
}

// TransferredCount returns the planned fish count.
func (c AddActionCommand) TransferredCount() int {
	return c.transferredCount
}

// TransferredBiomassKg returns the planned biomass.
func (c AddActionCommand) TransferredBiomassKg() float64 {
	return c.transferredBiomassKg
}

func (c *AddActionCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	c.workflowID = workflowID
	return nil
}

func (c *AddActionCommand) setActionID(actionID kernel.UUID) error {
	if err := actionID.Validate(); err != nil {
		return err
	}
	c.actionID = actionID
	return nil
}

func (c *AddActionCommand) setAssignments(sourceID, destinationID kernel.UUID) error {
	if err := sourceID.Validate(); err != nil {
		return err
	}
	if err := destinationID.Validate(); err != nil {
		return err
	}
	c.sourceAssignmentID = sourceID
	c.destinationAssignmentID = destinationID
	return nil
}

func (c *AddActionCommand) setQuantities(count int, biomassKg float64) error {
	if count <= 0 {
		return errs.NewValueIsInvalidError("transferredCount must be greater than 0")
	}
	if biomassKg <= 0 {
		return errs.NewValueIsInvalidError("transferredBiomassKg must be greater than 0")
	}
	c.transferredCount = count
	c.transferredBiomassKg = biomassKg
	return nil
}
