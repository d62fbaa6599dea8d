package workflowrepo

import (
	"context"
	"errors"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkflowRepository implements WorkflowRepository using GORM.
type GormWorkflowRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkflowRepository creates a new GORM workflow repository.
func NewGormWorkflowRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkflowRepository {
	return &GormWorkflowRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new workflow aggregate and its actions to the database.
func (r *GormWorkflowRepository) Add(ctx context.Context, aggregate *workflow.Workflow) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing workflow aggregate to the database,
// upserting its actions. Actions are never deleted here: the aggregate
// only appends actions in Draft and mutates them in place afterwards.
func (r *GormWorkflowRepository) Update(ctx context.Context, aggregate *workflow.Workflow) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Omit("Actions").Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.Actions) > 0 {
		err = r.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.Actions).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a workflow aggregate with all its actions.
func (r *GormWorkflowRepository) Get(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkflowDTO
	err := r.db.WithContext(ctx).
		Preload("Actions", actionOrder).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("workflow", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate retrieves a workflow aggregate holding an exclusive lock
// on the workflow row for the rest of the transaction. The lock lands on
// the workflow row only; action rows are owned by the aggregate and are
// never mutated outside this lock.
func (r *GormWorkflowRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*workflow.Workflow, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkflowDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("workflow", id.String())
		}
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Order("action_number").
		Find(&dto.Actions, "workflow_id = ?", dto.ID).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves all workflows in Planned or InProgress status.
func (r *GormWorkflowRepository) GetAllActive(ctx context.Context) ([]*workflow.Workflow, error) {
	var dtos []WorkflowDTO
	err := r.db.WithContext(ctx).
		Preload("Actions", actionOrder).
		Find(&dtos, "status IN ?", []int{int(workflow.Planned), int(workflow.InProgress)}).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllPlannedBefore retrieves workflows still in Planned status whose
// planned start lies before the given time. Used by the overdue sweep.
func (r *GormWorkflowRepository) GetAllPlannedBefore(ctx context.Context, t time.Time) ([]*workflow.Workflow, error) {
	var dtos []WorkflowDTO
	err := r.db.WithContext(ctx).
		Preload("Actions", actionOrder).
		Find(&dtos, "status = ? AND planned_start < ?", int(workflow.Planned), t).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []WorkflowDTO) ([]*workflow.Workflow, error) {
	workflows := make([]*workflow.Workflow, 0, len(dtos))
	for _, dto := range dtos {
		wf, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}

	return workflows, nil
}

// actionOrder forces deterministic action ordering on preloads.
func actionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("action_number")
}
