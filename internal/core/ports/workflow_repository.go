package ports

import (
	"context"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/workflow"
)

// WorkflowRepository defines the persistence contract for transfer
// workflow aggregates. A workflow is always loaded and stored together
// with the actions it owns.
type WorkflowRepository interface {
	// Add persists a new workflow aggregate and its actions.
	Add(ctx context.Context, aggregate *workflow.Workflow) error

	// Update persists changes to an existing workflow aggregate,
	// upserting its actions.
	Update(ctx context.Context, aggregate *workflow.Workflow) error

	// Get retrieves a workflow aggregate with all its actions.
	Get(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error)

	// GetForUpdate retrieves a workflow aggregate holding an exclusive
	// lock on the workflow record for the rest of the transaction.
	// Serializes concurrent action executions within one workflow.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error)

	// GetAllActive retrieves all workflows in Planned or InProgress status.
	GetAllActive(ctx context.Context) ([]*workflow.Workflow, error)

	// GetAllPlannedBefore retrieves workflows still in Planned status
	// whose planned start date lies before the given time.
	GetAllPlannedBefore(ctx context.Context, t time.Time) ([]*workflow.Workflow, error)
}
