package transferaction

import (
	"errors"
	"fmt"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/pkg/errs"
)

var (
	// ErrActionIsNotConstructed is returned when an Action instance was not
	// created through NewAction or RestoreAction.
	ErrActionIsNotConstructed = errors.New("Action must be created via NewAction or RestoreAction constructor")

	// ErrSameSourceAndDestination indicates the action references the same
	// population assignment as both source and destination.
	ErrSameSourceAndDestination = errors.New("source and destination assignments must differ")
)

// Action is one atomic container-to-container population movement within a
// transfer workflow. It is a child entity exclusively owned by the Workflow
// aggregate and never outlives it.
//
// An action is planned with a transfer quantity and a pair of population
// assignment references, then executed, skipped, rolled back or retried.
// Execution details (executor, mortality, method, timestamps) are recorded
// on the entity when the corresponding transition happens.
//
// Invariants:
//   - actionNumber is positive; uniqueness and contiguity within the
//     workflow are enforced by the owning aggregate
//   - source and destination assignments differ
//   - transferredCount is positive; transferredBiomassKg is positive
//   - mortalityDuringTransfer is never negative
//   - status transitions follow the Status state machine
type Action struct {
	// id is the unique identifier for the action
	id kernel.UUID

	// actionNumber is the 1-based planning sequence within the workflow
	actionNumber int

	// sourceAssignmentID references the population assignment fish leave
	sourceAssignmentID kernel.UUID

	// destinationAssignmentID references the population assignment fish enter
	destinationAssignmentID kernel.UUID

	// status is the current state in the action lifecycle
	status Status

	// sourcePopulationBefore is the live source count observed when the
	// action was planned. Advisory only: execution re-validates against
	// the live ledger state.
	sourcePopulationBefore int

	// transferredCount is the planned number of fish to move
	transferredCount int

	// transferredBiomassKg is the planned biomass to move
	transferredBiomassKg float64

	// mortalityDuringTransfer is the count lost during execution
	mortalityDuringTransfer int

	// method is the physical transfer technique used at execution
	method Method

	// metadata carries opaque execution context such as environmental
	// readings and free-text notes. It never participates in
	// state-machine logic.
	metadata map[string]any

	// skipReason explains why the action was skipped
	skipReason string

	// failureReason explains why an execution attempt failed
	failureReason string

	// executorID identifies who executed the action, nil before execution
	executorID *kernel.UUID

	// startedAt and completedAt bound the execution
	startedAt   *time.Time
	completedAt *time.Time

	// guard ensures the entity was properly initialized
	guard kernel.ConstructorGuard
}

// NewAction creates a newly planned Action in Pending status.
//
// Parameters:
//   - id: Unique identifier for the action
//   - actionNumber: 1-based sequence within the owning workflow
//   - sourceAssignmentID: Population assignment fish leave
//   - destinationAssignmentID: Population assignment fish enter
//   - transferredCount: Planned fish count (must be positive)
//   - transferredBiomassKg: Planned biomass (must be positive)
//   - sourcePopulationBefore: Advisory live-count snapshot (must not be negative)
//
// Returns a validation error if any parameter is invalid.
func NewAction(
	id kernel.UUID,
	actionNumber int,
	sourceAssignmentID kernel.UUID,
	destinationAssignmentID kernel.UUID,
	transferredCount int,
	transferredBiomassKg float64,
	sourcePopulationBefore int,
) (*Action, error) {
	action := &Action{
		status: Pending,
		guard:  kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		action.setID(id),
		action.setActionNumber(actionNumber),
		action.setAssignments(sourceAssignmentID, destinationAssignmentID),
		action.setTransferredCount(transferredCount),
		action.setTransferredBiomassKg(transferredBiomassKg),
		action.setSourcePopulationBefore(sourcePopulationBefore),
	); err != nil {
		return nil, err
	}

	return action, nil
}

// RestoreAction reconstructs an Action from persistent storage, including
// its execution details. The restored action behaves identically to one
// that reached the same state through domain operations.
func RestoreAction(
	id kernel.UUID,
	actionNumber int,
	sourceAssignmentID kernel.UUID,
	destinationAssignmentID kernel.UUID,
	status Status,
	transferredCount int,
	transferredBiomassKg float64,
	sourcePopulationBefore int,
	mortalityDuringTransfer int,
	method Method,
	metadata map[string]any,
	skipReason string,
	failureReason string,
	executorID *kernel.UUID,
	startedAt *time.Time,
	completedAt *time.Time,
) (*Action, error) {
	action := &Action{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		action.setID(id),
		action.setActionNumber(actionNumber),
		action.setAssignments(sourceAssignmentID, destinationAssignmentID),
		action.setStatus(status),
		action.setTransferredCount(transferredCount),
		action.setTransferredBiomassKg(transferredBiomassKg),
		action.setSourcePopulationBefore(sourcePopulationBefore),
		action.setMortality(mortalityDuringTransfer),
	); err != nil {
		return nil, err
	}

	action.method = method
	action.metadata = metadata
	action.skipReason = skipReason
	action.failureReason = failureReason
	action.executorID = executorID
	action.startedAt = startedAt
	action.completedAt = completedAt

	return action, nil
}

// Validate ensures the Action instance was properly constructed.
func (a *Action) Validate() error {
	if a == nil || a.guard.Validate(ErrActionIsNotConstructed) != nil {
		return ErrActionIsNotConstructed
	}

	return nil
}

// IsEqual compares two actions by their unique identifiers.
func (a *Action) IsEqual(other *Action) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the action's unique identifier.
func (a *Action) ID() kernel.UUID {
	return a.id
}

// ActionNumber returns the 1-based planning sequence within the workflow.
func (a *Action) ActionNumber() int {
	return a.actionNumber
}

// SourceAssignmentID returns the source population assignment reference.
func (a *Action) SourceAssignmentID() kernel.UUID {
	return a.sourceAssignmentID
}

// DestinationAssignmentID returns the destination population assignment reference.
func (a *Action) DestinationAssignmentID() kernel.UUID {
	return a.destinationAssignmentID
}

// Status returns the current status of the action.
func (a *Action) Status() Status {
	return a.status
}

// SourcePopulationBefore returns the advisory live-count snapshot taken
// when the action was planned.
func (a *Action) SourcePopulationBefore() int {
	return a.sourcePopulationBefore
}

// TransferredCount returns the planned fish count.
func (a *Action) TransferredCount() int {
	return a.transferredCount
}

// TransferredBiomassKg returns the planned biomass.
func (a *Action) TransferredBiomassKg() float64 {
	return a.transferredBiomassKg
}

// MortalityDuringTransfer returns the count lost during execution.
// Zero before the action has executed.
func (a *Action) MortalityDuringTransfer() int {
	return a.mortalityDuringTransfer
}

// Method returns the physical transfer technique recorded at execution.
func (a *Action) Method() Method {
	return a.method
}

// Metadata returns the opaque execution metadata, nil if none was recorded.
func (a *Action) Metadata() map[string]any {
	return a.metadata
}

// SkipReason returns the reason recorded when the action was skipped.
func (a *Action) SkipReason() string {
	return a.skipReason
}

// FailureReason returns the reason recorded when an execution attempt failed.
func (a *Action) FailureReason() string {
	return a.failureReason
}

// Executor returns the identity that executed the action, nil before execution.
func (a *Action) Executor() *kernel.UUID {
	return a.executorID
}

// StartedAt returns when the execution began, nil before execution.
func (a *Action) StartedAt() *time.Time {
	return a.startedAt
}

// CompletedAt returns when the execution finished, nil before execution.
func (a *Action) CompletedAt() *time.Time {
	return a.completedAt
}

// Duration returns how long the execution took, zero before execution.
func (a *Action) Duration() time.Duration {
	if a.startedAt == nil || a.completedAt == nil {
		return 0
	}
	return a.completedAt.Sub(*a.startedAt)
}

// TotalDeduction returns the combined count leaving the source assignment:
// the transferred fish plus mortality during the transfer.
func (a *Action) TotalDeduction() int {
	return a.transferredCount + a.mortalityDuringTransfer
}

// Complete records a successful execution and transitions the action to
// Completed. The ledger mutation itself is the executor's responsibility;
// this method only captures the outcome on the entity.
//
// Parameters:
//   - executorID: Identity performing the transfer (must be valid)
//   - mortality: Count lost during the transfer (must not be negative)
//   - method: Physical transfer technique (must be valid)
//   - metadata: Opaque execution context, may be nil
//   - startedAt, completedAt: Execution bounds; completedAt must not precede startedAt
//
// Returns a StateTransitionError if the action is not Pending.
func (a *Action) Complete(
	executorID kernel.UUID,
	mortality int,
	method Method,
	metadata map[string]any,
	startedAt time.Time,
	completedAt time.Time,
) error {
	if err := executorID.Validate(); err != nil {
		return err
	}
	if err := method.Validate(); err != nil {
		return err
	}
	if mortality < 0 {
		return errs.NewValueIsInvalidErrorWithCause("mortality is invalid",
			fmt.Errorf("%d is not greater than or equal to 0", mortality))
	}
	if completedAt.Before(startedAt) {
		return errs.NewValueIsInvalidErrorWithCause("completedAt is invalid",
			fmt.Errorf("completion %s precedes start %s", completedAt, startedAt))
	}

	newStatus, err := a.status.Complete()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.executorID = &executorID
	a.mortalityDuringTransfer = mortality
	a.method = method
	a.metadata = metadata
	a.startedAt = &startedAt
	a.completedAt = &completedAt
	a.failureReason = ""
	return nil
}

// MarkFailed records an aborted execution attempt and transitions the
// action to Failed. No ledger mutation is associated with this transition.
func (a *Action) MarkFailed(reason string) error {
	newStatus, err := a.status.Fail()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.failureReason = reason
	return nil
}

// Skip marks the action as deliberately handled outside the system.
// Skipped actions count toward workflow completion without any ledger
// mutation.
//
// Returns a StateTransitionError if the action is not Pending, or a
// validation error if the reason is empty.
func (a *Action) Skip(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("skip reason")
	}

	newStatus, err := a.status.Skip()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.skipReason = reason
	return nil
}

// Rollback returns a completed action to Pending and clears its execution
// record. The executor reverses the ledger mutation in the same atomic
// unit before calling this.
func (a *Action) Rollback() error {
	newStatus, err := a.status.Rollback()
	if err != nil {
		return err
	}

	a.status = newStatus
	a.executorID = nil
	a.mortalityDuringTransfer = 0
	a.method = MethodUnknown
	a.metadata = nil
	a.startedAt = nil
	a.completedAt = nil
	return nil
}

// Retry returns a failed action to Pending, permitting another execution
// attempt. The failure reason is kept for traceability.
func (a *Action) Retry() error {
	newStatus, err := a.status.Retry()
	if err != nil {
		return err
	}

	a.status = newStatus
	return nil
}

func (a *Action) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Action) setActionNumber(actionNumber int) error {
	if actionNumber < 1 {
		return errs.NewValueIsInvalidErrorWithCause("actionNumber is invalid",
			fmt.Errorf("%d is not greater than 0", actionNumber))
	}
	a.actionNumber = actionNumber
	return nil
}

func (a *Action) setAssignments(sourceID, destinationID kernel.UUID) error {
	if err := sourceID.Validate(); err != nil {
		return err
	}
	if err := destinationID.Validate(); err != nil {
		return err
	}
	if sourceID.IsEqual(destinationID) {
		return ErrSameSourceAndDestination
	}

	a.sourceAssignmentID = sourceID
	a.destinationAssignmentID = destinationID
	return nil
}

func (a *Action) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}

func (a *Action) setTransferredCount(count int) error {
	if count <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("transferredCount is invalid",
			fmt.Errorf("%d is not greater than 0", count))
	}
	a.transferredCount = count
	return nil
}

func (a *Action) setTransferredBiomassKg(biomassKg float64) error {
	if biomassKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("transferredBiomassKg is invalid",
			fmt.Errorf("%f is not greater than 0", biomassKg))
	}
	a.transferredBiomassKg = biomassKg
	return nil
}

func (a *Action) setSourcePopulationBefore(population int) error {
	if population < 0 {
		return errs.NewValueIsInvalidErrorWithCause("sourcePopulationBefore is invalid",
			fmt.Errorf("%d is not greater than or equal to 0", population))
	}
	a.sourcePopulationBefore = population
	return nil
}

func (a *Action) setMortality(mortality int) error {
	if mortality < 0 {
		return errs.NewValueIsInvalidErrorWithCause("mortality is invalid",
			fmt.Errorf("%d is not greater than or equal to 0", mortality))
	}
	a.mortalityDuringTransfer = mortality
	return nil
}
