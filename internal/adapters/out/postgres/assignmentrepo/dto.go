// Package assignmentrepo provides data transfer objects and mapping
// functions for population-ledger assignment persistence. An assignment
// row is the unit of locking for ledger mutation: execution and rollback
// lock the affected rows before touching counts.
package assignmentrepo

import (
	"transferflow/internal/core/domain/model/assignment"
	"transferflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting
// population-ledger assignments.
type AssignmentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID     uuid.UUID `gorm:"type:uuid;index"`
	ContainerID uuid.UUID `gorm:"type:uuid;index"`
	Count       int
	BiomassKg   float64
}

// TableName specifies the database table name for assignment entities.
// Overrides GORM's default naming convention to use "assignments".
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment domain entity to its database representation.
func fromDomain(a *assignment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:          a.ID().Bytes(),
		BatchID:     a.BatchID().Bytes(),
		ContainerID: a.ContainerID().Bytes(),
		Count:       a.Count(),
		BiomassKg:   a.BiomassKg(),
	}
}

// toDomain converts a database DTO to an assignment domain entity.
func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	batchID, err := kernel.UUIDFromBytes(dto.BatchID[:])
	if err != nil {
		return nil, err
	}

	containerID, err := kernel.UUIDFromBytes(dto.ContainerID[:])
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(id, batchID, containerID, dto.Count, dto.BiomassKg)
}
