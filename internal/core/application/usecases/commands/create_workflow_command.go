package commands

import (
	"errors"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/pkg/guard"
)

var (
	ErrCreateWorkflowCommandIsNotConstructed = errors.New(
		"CreateWorkflowCommand must be created via NewCreateWorkflowCommand constructor",
	)
	ErrPlannedStartIsRequired = errors.New("planned start date is required")
)

// CreateWorkflowCommand represents a request to open a new transfer
// workflow in Draft status. The workflow receives its unique, year-scoped
// number from the numbering service during handling.
//
// Example:
//
//	cmd, err := NewCreateWorkflowCommand(
//	    kernel.NewUUID(), batchID, workflow.LifecycleTransition,
//	    sourceStage, destStage, plannedStart, initiatorID,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid workflow data: %w", err)
//	}
//
//	handler := NewCreateWorkflowCommandHandler(uowFactory, numbering)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create workflow: %w", err)
//	}
type CreateWorkflowCommand struct { //nolint:recvcheck //using for validation
	workflowID       kernel.UUID
	batchID          kernel.UUID
	kind             workflow.Kind
	sourceStage      workflow.StageRef
	destinationStage workflow.StageRef
	plannedStart     time.Time
	initiatorID      kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateWorkflowCommand creates a command to open a new transfer workflow.
// Validates identifiers, the workflow kind, both stage references and the
// planned start date. Returns an error if any validation fails.
func NewCreateWorkflowCommand(
	workflowID kernel.UUID,
	batchID kernel.UUID,
	kind workflow.Kind,
	sourceStage workflow.StageRef,
	destinationStage workflow.StageRef,
	plannedStart time.Time,
	initiatorID kernel.UUID,
) (CreateWorkflowCommand, error) {
	cmd := CreateWorkflowCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkflowID(workflowID),
		cmd.setBatchID(batchID),
		cmd.setKind(kind),
		cmd.setStages(sourceStage, destinationStage),
		cmd.setPlannedStart(plannedStart),
		cmd.setInitiatorID(initiatorID),
	); err != nil {
		return CreateWorkflowCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateWorkflowCommand) Validate() error {
	return c.guard.Validate(ErrCreateWorkflowCommandIsNotConstructed)
}

// WorkflowID returns the unique identifier for the new workflow.
func (c CreateWorkflowCommand) WorkflowID() kernel.UUID {
	return c.workflowID
}

// BatchID returns the fish batch reference.
func (c CreateWorkflowCommand) BatchID() kernel.UUID {
	return c.batchID
}

// Kind returns the operational classification of the transfer.
func (c CreateWorkflowCommand) Kind() workflow.Kind {
	return c.kind
}

// SourceStage returns the lifecycle stage the batch leaves.
func (c CreateWorkflowCommand) SourceStage() workflow.StageRef {
	return c.sourceStage
}

// DestinationStage returns the lifecycle stage the batch enters.
func (c CreateWorkflowCommand) DestinationStage() workflow.StageRef {
	return c.destinationStage
}

// PlannedStart returns the intended execution start date.
func (c CreateWorkflowCommand) PlannedStart() time.Time {
	return c.plannedStart
}

// InitiatorID returns the identity creating the workflow.
func (c CreateWorkflowCommand) InitiatorID() kernel.UUID {
	return c.initiatorID
}

func (c *CreateWorkflowCommand) setWorkflowID(workflowID kernel.UUID) error {
	if err := workflowID.Validate(); err != nil {
		return err
	}
	c.workflowID = workflowID
	return nil
}

func (c *CreateWorkflowCommand) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}
	c.batchID = batchID
	return nil
}

func (c *CreateWorkflowCommand) setKind(kind workflow.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	c.kind = kind
	return nil
}

func (c *CreateWorkflowCommand) setStages(source, destination workflow.StageRef) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if err := destination.Validate(); err != nil {
		return err
	}
	c.sourceStage = source
	c.destinationStage = destination
	return nil
}

func (c *CreateWorkflowCommand) setPlannedStart(plannedStart time.Time) error {
	if plannedStart.IsZero() {
		return ErrPlannedStartIsRequired
	}
	c.plannedStart = plannedStart
	return nil
}

func (c *CreateWorkflowCommand) setInitiatorID(initiatorID kernel.UUID) error {
	if err := initiatorID.Validate(); err != nil {
		return err
	}
	c.initiatorID = initiatorID
	return nil
}
