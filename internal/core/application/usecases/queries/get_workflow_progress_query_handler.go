package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWorkflowProgressQueryHandler retrieves one workflow's progress
// snapshot from the database, including the per-action breakdown that
// the derived counters were computed from.
type GetWorkflowProgressQueryHandler struct {
	db *gorm.DB
}

// NewGetWorkflowProgressQueryHandler creates a handler for progress queries.
// Requires a GORM database connection for query execution.
func NewGetWorkflowProgressQueryHandler(db *gorm.DB) GetWorkflowProgressQueryHandler {
	return GetWorkflowProgressQueryHandler{db: db}
}

// Handle executes the progress query.
// Returns ObjectNotFoundError when no workflow with the given id exists.
// Actions are returned in plan order.
func (h GetWorkflowProgressQueryHandler) Handle(
	ctx context.Context,
	query GetWorkflowProgressQuery,
) (GetWorkflowProgressQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWorkflowProgressQueryResponse{}, err
	}

	resp, err := h.loadWorkflow(ctx, query.WorkflowID())
	if err != nil {
		return GetWorkflowProgressQueryResponse{}, err
	}

	resp.Actions, err = h.loadActions(ctx, query.WorkflowID())
	if err != nil {
		return GetWorkflowProgressQueryResponse{}, err
	}

	return resp, nil
}

func (h GetWorkflowProgressQueryHandler) loadWorkflow(
	ctx context.Context,
	workflowID kernel.UUID,
) (GetWorkflowProgressQueryResponse, error) {
	var resp GetWorkflowProgressQueryResponse
	var id uuid.UUID
	var status int
	var actualStart, actualCompletion *time.Time

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			total_actions_planned,
			actions_completed,
			completion_percentage,
			actual_start,
			actual_completion
		FROM workflows
		WHERE id = ?
	`, workflowID.Bytes()).Row()

	err := row.Scan(
		&id,
		&resp.Number,
		&status,
		&resp.TotalActionsPlanned,
		&resp.ActionsCompleted,
		&resp.CompletionPercentage,
		&actualStart,
		&actualCompletion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, errs.NewObjectNotFoundError("workflow", workflowID)
		}
		return resp, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return resp, err
	}

	resp.Status = workflow.Status(status).String()
	resp.ActualStart = actualStart
	resp.ActualCompletion = actualCompletion

	return resp, nil
}

func (h GetWorkflowProgressQueryHandler) loadActions(
	ctx context.Context,
	workflowID kernel.UUID,
) ([]ActionProgressResponse, error) {
	actions := make([]ActionProgressResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			action_number,
			status,
			transferred_count,
			transferred_biomass_kg,
			mortality_during_transfer,
			completed_at
		FROM actions
		WHERE workflow_id = ?
		ORDER BY action_number
	`, workflowID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var action ActionProgressResponse
		var id uuid.UUID
		var status int
		var completedAt *time.Time

		err = rows.Scan(
			&id,
			&action.ActionNumber,
			&status,
			&action.TransferredCount,
			&action.TransferredKg,
			&action.Mortality,
			&completedAt,
		)
		if err != nil {
			return nil, err
		}

		actionID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		action.ID = actionID

		action.Status = transferaction.Status(status).String()
		action.CompletedAt = completedAt

		actions = append(actions, action)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return actions, nil
}
