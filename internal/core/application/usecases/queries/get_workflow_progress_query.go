package queries

import (
	"errors"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/guard"
)

var (
	ErrGetWorkflowProgressQueryIsNotConstructed = errors.New(
		"GetWorkflowProgressQuery must be created via NewGetWorkflowProgressQuery constructor",
	)
)

// GetWorkflowProgressQuery retrieves the progress snapshot of a single
// workflow: its derived counters plus the per-action state breakdown.
//
// Example:
//
//	query, err := NewGetWorkflowProgressQuery(workflowID)
//	if err != nil {
//	    return err
//	}
//
//	progress, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get progress: %w", err)
//	}
//
//	fmt.Printf("%s: %d/%d (%.1f%%)\n", progress.Number,
//	    progress.ActionsCompleted, progress.TotalActionsPlanned,
//	    progress.CompletionPercentage)
type GetWorkflowProgressQuery struct {
	workflowID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetWorkflowProgressQuery creates a query for one workflow's progress.
func NewGetWorkflowProgressQuery(workflowID kernel.UUID) (GetWorkflowProgressQuery, error) {
	if err := workflowID.Validate(); err != nil {
		return GetWorkflowProgressQuery{}, err
	}

	return GetWorkflowProgressQuery{
		workflowID: workflowID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetWorkflowProgressQueryIsNotConstructed if validation fails.
func (q GetWorkflowProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkflowProgressQueryIsNotConstructed)
}

// WorkflowID returns the workflow whose progress is requested.
func (q GetWorkflowProgressQuery) WorkflowID() kernel.UUID {
	return q.workflowID
}

// GetWorkflowProgressQueryResponse represents a workflow's progress
// snapshot in the read model.
type GetWorkflowProgressQueryResponse struct {
	ID                   kernel.UUID
	Number               string
	Status               string
	TotalActionsPlanned  int
	ActionsCompleted     int
	CompletionPercentage float64
	ActualStart          *time.Time
	ActualCompletion     *time.Time
	Actions              []ActionProgressResponse
}

// ActionProgressResponse represents one action's contribution to the
// workflow's progress.
type ActionProgressResponse struct {
	ID               kernel.UUID
	ActionNumber     int
	Status           string
	TransferredCount int
	TransferredKg    float64
	Mortality        int
	CompletedAt      *time.Time
}
