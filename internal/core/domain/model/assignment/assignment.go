package assignment

import (
	"errors"
	"fmt"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment instance
// was not created through NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New(
	"Assignment must be created via NewAssignment or RestoreAssignment constructor",
)

// Assignment is a population-ledger record: the live count and biomass a
// batch currently holds in a specific container. It is the single shared,
// mutable resource of the transfer engine; only the action executor
// mutates it, under a per-record exclusive lock held by the enclosing
// transaction.
//
// Invariants:
//   - count is never negative
//   - biomass is never negative
//   - Deduct refuses to overdraw the live count
type Assignment struct {
	// id is the unique identifier for the assignment
	id kernel.UUID

	// batchID references the fish batch held
	batchID kernel.UUID

	// containerID references the physical container
	containerID kernel.UUID

	// count is the live population count
	count int

	// biomassKg is the live biomass
	biomassKg float64

	// guard ensures the entity was properly initialized
	guard kernel.ConstructorGuard
}

// NewAssignment creates an Assignment with the given live figures.
// Count and biomass must not be negative.
func NewAssignment(
	id kernel.UUID,
	batchID kernel.UUID,
	containerID kernel.UUID,
	count int,
	biomassKg float64,
) (*Assignment, error) {
	a := &Assignment{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setBatchID(batchID),
		a.setContainerID(containerID),
		a.setCount(count),
		a.setBiomassKg(biomassKg),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment reconstructs an Assignment from persistent storage.
func RestoreAssignment(
	id kernel.UUID,
	batchID kernel.UUID,
	containerID kernel.UUID,
	count int,
	biomassKg float64,
) (*Assignment, error) {
	return NewAssignment(id, batchID, containerID, count, biomassKg)
}

// Validate ensures the Assignment instance was properly constructed.
func (a *Assignment) Validate() error {
	if a == nil || a.guard.Validate(ErrAssignmentIsNotConstructed) != nil {
		return ErrAssignmentIsNotConstructed
	}

	return nil
}

// IsEqual compares two assignments by their unique identifiers.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// BatchID returns the fish batch reference.
func (a *Assignment) BatchID() kernel.UUID {
	return a.batchID
}

// ContainerID returns the physical container reference.
func (a *Assignment) ContainerID() kernel.UUID {
	return a.containerID
}

// Count returns the live population count.
func (a *Assignment) Count() int {
	return a.count
}

// BiomassKg returns the live biomass.
func (a *Assignment) BiomassKg() float64 {
	return a.biomassKg
}

// CanDeduct reports whether the live count covers the requested deduction.
func (a *Assignment) CanDeduct(count int) bool {
	return count <= a.count
}

// Deduct removes count fish and biomass from the assignment. Refuses to
// overdraw: the caller validates demand against the live figures first,
// and this method re-checks as a final guard.
//
// Returns an InsufficientSourcePopulationError when count exceeds the
// live population; the assignment is left untouched.
func (a *Assignment) Deduct(count int, biomassKg float64) error {
	if count < 0 || biomassKg < 0 {
		return errs.NewValueIsInvalidErrorWithCause("deduction is invalid",
			fmt.Errorf("count %d and biomass %f must not be negative", count, biomassKg))
	}
	if count > a.count {
		return errs.NewInsufficientSourcePopulationError(a.id.String(), count, a.count)
	}

	a.count -= count
	a.biomassKg -= biomassKg
	if a.biomassKg < 0 {
		// biomass figures come from estimated average weights; clamp
		// rounding drift instead of failing the transfer
		a.biomassKg = 0
	}
	return nil
}

// Credit adds count fish and biomass to the assignment.
func (a *Assignment) Credit(count int, biomassKg float64) error {
	if count < 0 || biomassKg < 0 {
		return errs.NewValueIsInvalidErrorWithCause("credit is invalid",
			fmt.Errorf("count %d and biomass %f must not be negative", count, biomassKg))
	}

	a.count += count
	a.biomassKg += biomassKg
	return nil
}

func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Assignment) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}
	a.batchID = batchID
	return nil
}

func (a *Assignment) setContainerID(containerID kernel.UUID) error {
	if err := containerID.Validate(); err != nil {
		return err
	}
	a.containerID = containerID
	return nil
}

func (a *Assignment) setCount(count int) error {
	if count < 0 {
		return errs.NewValueIsInvalidErrorWithCause("count is invalid",
			fmt.Errorf("%d is not greater than or equal to 0", count))
	}
	a.count = count
	return nil
}

func (a *Assignment) setBiomassKg(biomassKg float64) error {
	if biomassKg < 0 {
		return errs.NewValueIsInvalidErrorWithCause("biomassKg is invalid",
			fmt.Errorf("%f is not greater than or equal to 0", biomassKg))
	}
	a.biomassKg = biomassKg
	return nil
}
