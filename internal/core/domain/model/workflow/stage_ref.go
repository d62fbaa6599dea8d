package workflow

import (
	"errors"
	"fmt"

	"transferflow/internal/core/domain/model/kernel"
)

// ErrStageRefIsNotConstructed indicates that a StageRef was not created
// through the NewStageRef constructor.
var ErrStageRefIsNotConstructed = errors.New("StageRef must be created via NewStageRef constructor")

// StageRef is a value object referencing a lifecycle stage together with
// the organizational unit that owns it. The company reference exists only
// to derive the advisory intercompany flag; it has no effect on state
// transitions.
//
// StageRef is immutable. The zero value is invalid and fails Validate.
type StageRef struct { //nolint:recvcheck //using for validation
	// stageID references the lifecycle stage (e.g. smolt, on-growing)
	stageID kernel.UUID

	// companyID references the finance-relevant organizational unit
	// that owns containers in this stage
	companyID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewStageRef creates a StageRef from a lifecycle-stage reference and the
// owning company reference. Both identifiers must be valid UUIDs.
func NewStageRef(stageID kernel.UUID, companyID kernel.UUID) (StageRef, error) {
	ref := StageRef{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		ref.setStageID(stageID),
		ref.setCompanyID(companyID),
	); err != nil {
		return StageRef{}, err
	}

	return ref, nil
}

// Validate ensures the StageRef was created through NewStageRef.
func (r StageRef) Validate() error {
	return r.guard.Validate(ErrStageRefIsNotConstructed)
}

// StageID returns the lifecycle-stage reference.
func (r StageRef) StageID() kernel.UUID {
	return r.stageID
}

// CompanyID returns the owning organizational unit reference.
func (r StageRef) CompanyID() kernel.UUID {
	return r.companyID
}

// SameCompany reports whether both stage references belong to the same
// organizational unit. A transfer between stages owned by different
// companies is intercompany for finance purposes.
func (r StageRef) SameCompany(other StageRef) bool {
	return r.companyID.IsEqual(other.companyID)
}

// String returns a human-readable representation for logging.
func (r StageRef) String() string {
	return fmt.Sprintf("stage %s (company %s)", r.stageID, r.companyID)
}

func (r *StageRef) setStageID(stageID kernel.UUID) error {
	if err := stageID.Validate(); err != nil {
		return err
	}
	r.stageID = stageID
	return nil
}

func (r *StageRef) setCompanyID(companyID kernel.UUID) error {
	if err := companyID.Validate(); err != nil {
		return err
	}
	r.companyID = companyID
	return nil
}
