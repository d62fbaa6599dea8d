package queries

import (
	"context"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveWorkflowsQueryHandler retrieves non-terminal workflows from the
// database. Reads the persisted aggregate snapshot directly; completed and
// cancelled workflows are filtered out.
//
// Example:
//
//	handler := NewGetActiveWorkflowsQueryHandler(db)
//	query := NewGetActiveWorkflowsQuery()
//
//	workflows, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get active workflows: %v", err)
//	    return err
//	}
type GetActiveWorkflowsQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveWorkflowsQueryHandler creates a handler for active workflow queries.
// Requires a GORM database connection for query execution.
func NewGetActiveWorkflowsQueryHandler(db *gorm.DB) GetActiveWorkflowsQueryHandler {
	return GetActiveWorkflowsQueryHandler{db: db}
}

// Handle executes the query to retrieve all active workflows.
// Results are sorted by planned start date so the most urgent transfers
// come first.
func (h GetActiveWorkflowsQueryHandler) Handle(
	ctx context.Context,
	query GetActiveWorkflowsQuery,
) ([]GetActiveWorkflowsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	workflows := make([]GetActiveWorkflowsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			batch_id,
			kind,
			status,
			planned_start,
			is_intercompany,
			total_actions_planned,
			actions_completed,
			completion_percentage
		FROM workflows
		WHERE status NOT IN (?, ?)
		ORDER BY planned_start, number
	`, workflow.Completed, workflow.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetActiveWorkflowsQueryResponse
		var id, batchID uuid.UUID
		var kind, status int
		var plannedStart time.Time

		err = rows.Scan(
			&id,
			&resp.Number,
			&batchID,
			&kind,
			&status,
			&plannedStart,
			&resp.IsIntercompany,
			&resp.TotalActionsPlanned,
			&resp.ActionsCompleted,
			&resp.CompletionPercentage,
		)
		if err != nil {
			return nil, err
		}

		workflowID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = workflowID

		wfBatchID, idErr := kernel.UUIDFromBytes(batchID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.BatchID = wfBatchID

		resp.Kind = workflow.Kind(kind).String()
		resp.Status = workflow.Status(status).String()
		resp.PlannedStart = plannedStart

		workflows = append(workflows, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return workflows, nil
}
