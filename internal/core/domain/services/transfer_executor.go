package services

import (
	"fmt"
	"time"

	"transferflow/internal/core/domain/model/assignment"
	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/core/domain/model/workflow"
	"transferflow/internal/pkg/errs"
)

// TransferExecutor is the domain service that applies a single transfer
// action to the population ledger, and reverses it again on rollback.
// It coordinates the workflow aggregate, the action entity and the two
// ledger assignments involved, enforcing the all-or-nothing rule: every
// precondition is checked before the first mutation, so a failed call
// leaves all four objects untouched.
//
// The caller provides ledger assignments freshly re-read under an
// exclusive per-record lock; the executor never reads storage itself.
//
// Example usage:
//
//	executor := services.NewTransferExecutor()
//	err := executor.Execute(wf, action, source, dest, services.ExecutionParams{
//	    ExecutorID:  operatorID,
//	    Mortality:   10,
//	    Method:      transferaction.Pump,
//	    StartedAt:   startedAt,
//	    CompletedAt: time.Now(),
//	})
//	if errors.Is(err, errs.ErrInsufficientSourcePopulation) {
//	    // demand exceeded the live source count; nothing was mutated
//	}
type TransferExecutor struct{}

// NewTransferExecutor creates a new TransferExecutor instance.
func NewTransferExecutor() TransferExecutor {
	return TransferExecutor{}
}

// ExecutionParams carries the operator-supplied details of one execution.
type ExecutionParams struct {
	// ExecutorID identifies who performs the transfer
	ExecutorID kernel.UUID

	// Mortality is the count lost during the transfer
	Mortality int

	// Method is the physical transfer technique
	Method transferaction.Method

	// Metadata carries opaque execution context, may be nil
	Metadata map[string]any

	// StartedAt and CompletedAt bound the execution
	StartedAt   time.Time
	CompletedAt time.Time
}

// Execute applies the action to the ledger and records the outcome:
//
//  1. Preconditions: action Pending, workflow Planned or InProgress.
//  2. Demand validation: transferred + mortality must not exceed the
//     live source count (InsufficientSourcePopulation otherwise).
//  3. Ledger arithmetic: source loses transferred + mortality, the
//     destination gains the transferred amounts. Mortality biomass is
//     estimated at the transfer's average fish weight.
//  4. The action transitions to Completed with the execution record.
//  5. The workflow's first successful execution lifts it Planned ->
//     InProgress; progress is then recomputed, which may auto-complete
//     the workflow.
//
// Any validation failure returns before the first mutation. The caller
// commits or rolls back the surrounding unit of work; partial in-memory
// mutation never occurs on an error return.
func (e TransferExecutor) Execute(
	wf *workflow.Workflow,
	action *transferaction.Action,
	source *assignment.Assignment,
	destination *assignment.Assignment,
	params ExecutionParams,
) error {
	if err := e.validateParticipants(wf, action, source, destination); err != nil {
		return err
	}
	if err := params.ExecutorID.Validate(); err != nil {
		return err
	}
	if err := params.Method.Validate(); err != nil {
		return err
	}
	if params.Mortality < 0 {
		return errs.NewValueIsInvalidErrorWithCause("mortality is invalid",
			fmt.Errorf("%d is not greater than or equal to 0", params.Mortality))
	}

	if !wf.Status().IsExecutable() {
		return errs.NewStateTransitionError("workflow", "execute action", wf.Status().String())
	}
	if action.Status() != transferaction.Pending {
		return errs.NewStateTransitionError("action", "execute", action.Status().String())
	}

	demand := action.TransferredCount() + params.Mortality
	if !source.CanDeduct(demand) {
		return errs.NewInsufficientSourcePopulationError(source.ID().String(), demand, source.Count())
	}

	mortalityBiomass := e.mortalityBiomass(action, params.Mortality)
	if err := source.Deduct(demand, action.TransferredBiomassKg()+mortalityBiomass); err != nil {
		return err
	}
	if err := destination.Credit(action.TransferredCount(), action.TransferredBiomassKg()); err != nil {
		return err
	}

	if err := action.Complete(
		params.ExecutorID,
		params.Mortality,
		params.Method,
		params.Metadata,
		params.StartedAt,
		params.CompletedAt,
	); err != nil {
		return err
	}

	if err := wf.Start(params.CompletedAt); err != nil {
		return err
	}

	return wf.RecomputeProgress(params.CompletedAt)
}

// Rollback reverses a completed action's ledger mutation and returns the
// action to Pending. The source regains transferred + mortality, the
// destination loses the transferred amounts.
//
// Reversal is refused with ErrDestinationAlreadyDrawn when the
// destination's live count no longer covers the transferred fish — a
// later transfer already drew them out, and no cascading reversal is
// attempted. The workflow must still be InProgress: completed and
// cancelled workflows are terminal.
func (e TransferExecutor) Rollback(
	wf *workflow.Workflow,
	action *transferaction.Action,
	source *assignment.Assignment,
	destination *assignment.Assignment,
	now time.Time,
) error {
	if err := e.validateParticipants(wf, action, source, destination); err != nil {
		return err
	}

	if wf.Status() != workflow.InProgress {
		return errs.NewStateTransitionError("workflow", "rollback action", wf.Status().String())
	}
	if action.Status() != transferaction.Completed {
		return errs.NewStateTransitionError("action", "rollback", action.Status().String())
	}

	if !destination.CanDeduct(action.TransferredCount()) {
		return errs.NewDestinationAlreadyDrawnError(
			destination.ID().String(), action.TransferredCount(), destination.Count())
	}

	// capture before Rollback clears the execution record
	mortality := action.MortalityDuringTransfer()
	mortalityBiomass := e.mortalityBiomass(action, mortality)

	if err := destination.Deduct(action.TransferredCount(), action.TransferredBiomassKg()); err != nil {
		return err
	}
	if err := source.Credit(action.TransferredCount()+mortality, action.TransferredBiomassKg()+mortalityBiomass); err != nil {
		return err
	}

	if err := action.Rollback(); err != nil {
		return err
	}

	return wf.RecomputeProgress(now)
}

// mortalityBiomass estimates the biomass of fish lost during transfer at
// the transfer's average fish weight.
func (e TransferExecutor) mortalityBiomass(action *transferaction.Action, mortality int) float64 {
	if mortality == 0 || action.TransferredCount() == 0 {
		return 0
	}
	return action.TransferredBiomassKg() / float64(action.TransferredCount()) * float64(mortality)
}

func (e TransferExecutor) validateParticipants(
	wf *workflow.Workflow,
	action *transferaction.Action,
	source *assignment.Assignment,
	destination *assignment.Assignment,
) error {
	if err := wf.Validate(); err != nil {
		return err
	}
	if err := action.Validate(); err != nil {
		return err
	}
	if err := source.Validate(); err != nil {
		return err
	}
	if err := destination.Validate(); err != nil {
		return err
	}
	if !action.SourceAssignmentID().IsEqual(source.ID()) {
		return errs.NewValueIsInvalidError("source assignment does not match action")
	}
	if !action.DestinationAssignmentID().IsEqual(destination.ID()) {
		return errs.NewValueIsInvalidError("destination assignment does not match action")
	}
	return nil
}
