// Package workflowrepo provides data transfer objects and mapping functions
// for workflow persistence. This package implements the repository pattern
// for the workflow aggregate, handling the conversion between domain
// entities and database representations. A workflow row always travels
// together with its owned action rows.
package workflowrepo

import (
	"encoding/json"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/core/domain/model/workflow"

	"github.com/google/uuid"
)

// WorkflowDTO represents the database structure for persisting workflow
// aggregates. Derived progress counters are stored alongside the row so
// that read models never recompute them.
type WorkflowDTO struct {
	ID                   uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Number               string      `gorm:"uniqueIndex"`
	BatchID              uuid.UUID   `gorm:"type:uuid;index"`
	Kind                 int         `gorm:""`
	Status               int         `gorm:"index"`
	SourceStageID        uuid.UUID   `gorm:"type:uuid"`
	SourceCompanyID      uuid.UUID   `gorm:"type:uuid"`
	DestinationStageID   uuid.UUID   `gorm:"type:uuid"`
	DestinationCompanyID uuid.UUID   `gorm:"type:uuid"`
	PlannedStart         time.Time   `gorm:"index"`
	ActualStart          *time.Time  `gorm:""`
	ActualCompletion     *time.Time  `gorm:""`
	CancelReason         string      `gorm:""`
	IsIntercompany       bool        `gorm:""`
	InitiatorID          uuid.UUID   `gorm:"type:uuid"`
	TotalActionsPlanned  int         `gorm:""`
	ActionsCompleted     int         `gorm:""`
	CompletionPercentage float64     `gorm:""`
	Actions              []ActionDTO `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for workflow entities.
// Overrides GORM's default naming convention to use "workflows".
func (WorkflowDTO) TableName() string {
	return "workflows"
}

// ActionDTO represents the database structure for persisting transfer
// actions. Environmental readings are stored as an opaque JSON document.
type ActionDTO struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	WorkflowID              uuid.UUID  `gorm:"type:uuid;index;uniqueIndex:idx_workflow_action_number,priority:1"`
	ActionNumber            int        `gorm:"uniqueIndex:idx_workflow_action_number,priority:2"`
	SourceAssignmentID      uuid.UUID  `gorm:"type:uuid"`
	DestinationAssignmentID uuid.UUID  `gorm:"type:uuid"`
	Status                  int        `gorm:"index"`
	SourcePopulationBefore  int        `gorm:""`
	TransferredCount        int        `gorm:""`
	TransferredBiomassKg    float64    `gorm:""`
	MortalityDuringTransfer int        `gorm:""`
	Method                  int        `gorm:""`
	Metadata                []byte     `gorm:"type:jsonb"`
	SkipReason              string     `gorm:""`
	FailureReason           string     `gorm:""`
	ExecutorID              *uuid.UUID `gorm:"type:uuid"`
	StartedAt               *time.Time `gorm:""`
	CompletedAt             *time.Time `gorm:""`
}

// TableName specifies the database table name for action entities.
// Overrides GORM's default naming convention to use "actions".
func (ActionDTO) TableName() string {
	return "actions"
}

// fromDomain converts a workflow domain aggregate to its database
// representation, including all owned actions.
func fromDomain(wf *workflow.Workflow) (WorkflowDTO, error) {
	actions := wf.Actions()
	actionDTOs := make([]ActionDTO, 0, len(actions))
	for _, action := range actions {
		dto, err := actionFromDomain(wf.ID(), action)
		if err != nil {
			return WorkflowDTO{}, err
		}
		actionDTOs = append(actionDTOs, dto)
	}

	return WorkflowDTO{
		ID:                   wf.ID().Bytes(),
		Number:               wf.Number(),
		BatchID:              wf.BatchID().Bytes(),
		Kind:                 int(wf.Kind()),
		Status:               int(wf.Status()),
		SourceStageID:        wf.SourceStage().StageID().Bytes(),
		SourceCompanyID:      wf.SourceStage().CompanyID().Bytes(),
		DestinationStageID:   wf.DestinationStage().StageID().Bytes(),
		DestinationCompanyID: wf.DestinationStage().CompanyID().Bytes(),
		PlannedStart:         wf.PlannedStart(),
		ActualStart:          wf.ActualStart(),
		ActualCompletion:     wf.ActualCompletion(),
		CancelReason:         wf.CancelReason(),
		IsIntercompany:       wf.IsIntercompany(),
		InitiatorID:          wf.InitiatorID().Bytes(),
		TotalActionsPlanned:  wf.TotalActionsPlanned(),
		ActionsCompleted:     wf.ActionsCompleted(),
		CompletionPercentage: wf.CompletionPercentage(),
		Actions:              actionDTOs,
	}, nil
}

func actionFromDomain(workflowID kernel.UUID, action *transferaction.Action) (ActionDTO, error) {
	var metadata []byte
	if action.Metadata() != nil {
		raw, err := json.Marshal(action.Metadata())
		if err != nil {
			return ActionDTO{}, err
		}
		metadata = raw
	}

	var executorID *uuid.UUID
	if id := action.Executor(); id != nil {
		raw := id.Bytes()
		executorID = &raw
	}

	return ActionDTO{
		ID:                      action.ID().Bytes(),
		WorkflowID:              workflowID.Bytes(),
		ActionNumber:            action.ActionNumber(),
		SourceAssignmentID:      action.SourceAssignmentID().Bytes(),
		DestinationAssignmentID: action.DestinationAssignmentID().Bytes(),
		Status:                  int(action.Status()),
		SourcePopulationBefore:  action.SourcePopulationBefore(),
		TransferredCount:        action.TransferredCount(),
		TransferredBiomassKg:    action.TransferredBiomassKg(),
		MortalityDuringTransfer: action.MortalityDuringTransfer(),
		Method:                  int(action.Method()),
		Metadata:                metadata,
		SkipReason:              action.SkipReason(),
		FailureReason:           action.FailureReason(),
		ExecutorID:              executorID,
		StartedAt:               action.StartedAt(),
		CompletedAt:             action.CompletedAt(),
	}, nil
}

// toDomain converts a database DTO to a workflow domain aggregate.
// Reconstructs the complete aggregate including all actions using
// RestoreWorkflow; derived progress is recomputed during restoration.
func toDomain(dto WorkflowDTO) (*workflow.Workflow, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	batchID, err := kernel.UUIDFromBytes(dto.BatchID[:])
	if err != nil {
		return nil, err
	}

	initiatorID, err := kernel.UUIDFromBytes(dto.InitiatorID[:])
	if err != nil {
		return nil, err
	}

	sourceStage, err := stageRefFromColumns(dto.SourceStageID, dto.SourceCompanyID)
	if err != nil {
		return nil, err
	}

	destinationStage, err := stageRefFromColumns(dto.DestinationStageID, dto.DestinationCompanyID)
	if err != nil {
		return nil, err
	}

	actions := make([]*transferaction.Action, 0, len(dto.Actions))
	for _, actionDTO := range dto.Actions {
		action, actionErr := actionToDomain(actionDTO)
		if actionErr != nil {
			return nil, actionErr
		}
		actions = append(actions, action)
	}

	return workflow.RestoreWorkflow(
		id,
		dto.Number,
		batchID,
		workflow.Kind(dto.Kind),
		workflow.Status(dto.Status),
		sourceStage,
		destinationStage,
		dto.PlannedStart,
		dto.ActualStart,
		dto.ActualCompletion,
		dto.CancelReason,
		dto.IsIntercompany,
		initiatorID,
		actions,
	)
}

func actionToDomain(dto ActionDTO) (*transferaction.Action, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	sourceAssignmentID, err := kernel.UUIDFromBytes(dto.SourceAssignmentID[:])
	if err != nil {
		return nil, err
	}

	destinationAssignmentID, err := kernel.UUIDFromBytes(dto.DestinationAssignmentID[:])
	if err != nil {
		return nil, err
	}

	var executorID *kernel.UUID
	if dto.ExecutorID != nil {
		eID, executorErr := kernel.UUIDFromBytes((*dto.ExecutorID)[:])
		if executorErr != nil {
			return nil, executorErr
		}

		executorID = &eID
	}

	var metadata map[string]any
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	return transferaction.RestoreAction(
		id,
		dto.ActionNumber,
		sourceAssignmentID,
		destinationAssignmentID,
		transferaction.Status(dto.Status),
		dto.TransferredCount,
		dto.TransferredBiomassKg,
		dto.SourcePopulationBefore,
		dto.MortalityDuringTransfer,
		transferaction.Method(dto.Method),
		metadata,
		dto.SkipReason,
		dto.FailureReason,
		executorID,
		dto.StartedAt,
		dto.CompletedAt,
	)
}

func stageRefFromColumns(stageID, companyID uuid.UUID) (workflow.StageRef, error) {
	sID, err := kernel.UUIDFromBytes(stageID[:])
	if err != nil {
		return workflow.StageRef{}, err
	}

	cID, err := kernel.UUIDFromBytes(companyID[:])
	if err != nil {
		return workflow.StageRef{}, err
	}

	return workflow.NewStageRef(sID, cID)
}
