// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/guard"
)

var (
	ErrGetActiveWorkflowsQueryIsNotConstructed = errors.New(
		"GetActiveWorkflowsQuery must be created via NewGetActiveWorkflowsQuery constructor",
	)
)

// GetActiveWorkflowsQuery retrieves every workflow that has not reached a
// terminal state. Returns drafts, planned and in-progress workflows for
// operational monitoring.
//
// Example:
//
//	query := NewGetActiveWorkflowsQuery()
//	handler := NewGetActiveWorkflowsQueryHandler(db)
//
//	workflows, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve active workflows: %w", err)
//	}
//
//	for _, wf := range workflows {
//	    fmt.Printf("%s [%s] %.1f%%\n", wf.Number, wf.Status, wf.CompletionPercentage)
//	}
type GetActiveWorkflowsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveWorkflowsQuery creates a query to retrieve active workflows.
// This is a parameterless query that fetches all non-terminal workflows.
func NewGetActiveWorkflowsQuery() GetActiveWorkflowsQuery {
	return GetActiveWorkflowsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetActiveWorkflowsQueryIsNotConstructed if validation fails.
func (q GetActiveWorkflowsQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveWorkflowsQueryIsNotConstructed)
}

// GetActiveWorkflowsQueryResponse represents one active workflow in the
// read model. Carries the operationally relevant subset of the aggregate.
type GetActiveWorkflowsQueryResponse struct {
	ID                   kernel.UUID
	Number               string
	BatchID              kernel.UUID
	Kind                 string
	Status               string
	PlannedStart         time.Time
	IsIntercompany       bool
	TotalActionsPlanned  int
	ActionsCompleted     int
	CompletionPercentage float64
}
