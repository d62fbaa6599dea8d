package workflow

import (
	"errors"
	"fmt"
	"time"

	"transferflow/internal/core/domain/model/kernel"
	"transferflow/internal/core/domain/model/transferaction"
	"transferflow/internal/pkg/errs"
)

var (
	// ErrWorkflowIsNotConstructed is returned when a Workflow instance was
	// not created through NewWorkflow or RestoreWorkflow.
	ErrWorkflowIsNotConstructed = errors.New("Workflow must be created via NewWorkflow or RestoreWorkflow constructor")

	// ErrActionNotFound indicates the workflow owns no action with the
	// requested identifier.
	ErrActionNotFound = errors.New("action not found in workflow")
)

// Workflow is the aggregate root for a logical, multi-day population
// transfer between containers. It decomposes the transfer into an ordered
// set of atomic actions, enforces the workflow-level state machine, and
// derives its own progress and completion purely from its actions' states.
//
// Workflow follows these invariants:
//   - Actions are added only while the workflow is in Draft
//   - Action numbers are unique and contiguous, starting at 1
//   - A workflow cannot reach Planned with zero actions
//   - Completed requires every action to be Completed or Skipped
//   - Completed and Cancelled are terminal
//
// Progress fields (actionsCompleted, completionPercentage) are derived:
// RecomputeProgress recalculates them as a pure function of the current
// action states, so repeated calls converge regardless of order.
type Workflow struct {
	// id is the unique identifier for the workflow
	id kernel.UUID

	// number is the human-readable, year-scoped workflow number
	// issued by the numbering service (e.g. "TRF-2026-000042")
	number string

	// batchID references the fish batch being transferred
	batchID kernel.UUID

	// kind classifies the operational purpose of the transfer
	kind Kind

	// status is the current state in the workflow lifecycle
	status Status

	// sourceStage and destinationStage reference the lifecycle stages
	// (and their owning companies) the batch moves between
	sourceStage      StageRef
	destinationStage StageRef

	// plannedStart is when the operator intends to begin execution
	plannedStart time.Time

	// actualStart is stamped on the first successful action execution
	actualStart *time.Time

	// actualCompletion is stamped when progress recomputation observes
	// that every action is handled
	actualCompletion *time.Time

	// cancelReason explains why the workflow was cancelled
	cancelReason string

	// isIntercompany flags transfers crossing organizational ownership.
	// Advisory for finance; no effect on state transitions.
	isIntercompany bool

	// initiatorID identifies who created the workflow
	initiatorID kernel.UUID

	// actionsCompleted and completionPercentage are derived from action
	// states by RecomputeProgress
	actionsCompleted     int
	completionPercentage float64

	// actions are the child entities exclusively owned by this workflow
	actions []*transferaction.Action

	// guard ensures the aggregate was properly initialized
	guard kernel.ConstructorGuard
}

// NewWorkflow creates a new Workflow in Draft status with no actions.
//
// Parameters:
//   - id: Unique identifier for the workflow
//   - number: Human-readable number from the numbering service (must be non-empty)
//   - batchID: Fish batch being transferred
//   - kind: Operational purpose of the transfer
//   - sourceStage, destinationStage: Lifecycle-stage references
//   - plannedStart: Intended execution start (must not be zero)
//   - initiatorID: Identity creating the workflow
//
// The intercompany flag is derived from the stage references' owning
// companies at construction time.
func NewWorkflow(
	id kernel.UUID,
	number string,
	batchID kernel.UUID,
	kind Kind,
	sourceStage StageRef,
	destinationStage StageRef,
	plannedStart time.Time,
	initiatorID kernel.UUID,
) (*Workflow, error) {
	wf := &Workflow{
		status: Draft,
		guard:  kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		wf.setID(id),
		wf.setNumber(number),
		wf.setBatchID(batchID),
		wf.setKind(kind),
		wf.setStages(sourceStage, destinationStage),
		wf.setPlannedStart(plannedStart),
		wf.setInitiatorID(initiatorID),
	); err != nil {
		return nil, err
	}

	wf.isIntercompany = wf.DetectIntercompany()
	return wf, nil
}

// RestoreWorkflow reconstructs a Workflow aggregate from persistent
// storage, including its actions and derived progress. The restored
// workflow behaves identically to one that reached the same state through
// domain operations.
func RestoreWorkflow(
	id kernel.UUID,
	number string,
	batchID kernel.UUID,
	kind Kind,
	status Status,
	sourceStage StageRef,
	destinationStage StageRef,
	plannedStart time.Time,
	actualStart *time.Time,
	actualCompletion *time.Time,
	cancelReason string,
	isIntercompany bool,
	initiatorID kernel.UUID,
	actions []*transferaction.Action,
) (*Workflow, error) {
	wf := &Workflow{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		wf.setID(id),
		wf.setNumber(number),
		wf.setBatchID(batchID),
		wf.setKind(kind),
		wf.setStatus(status),
		wf.setStages(sourceStage, destinationStage),
		wf.setPlannedStart(plannedStart),
		wf.setInitiatorID(initiatorID),
		wf.setActions(actions),
	); err != nil {
		return nil, err
	}

	wf.actualStart = actualStart
	wf.actualCompletion = actualCompletion
	wf.cancelReason = cancelReason
	wf.isIntercompany = isIntercompany
	wf.refreshProgress()

	return wf, nil
}

// Validate ensures the Workflow instance was properly constructed.
func (w *Workflow) Validate() error {
	if w == nil || w.guard.Validate(ErrWorkflowIsNotConstructed) != nil {
		return ErrWorkflowIsNotConstructed
	}

	return nil
}

// IsEqual compares two workflows by their unique identifiers.
func (w *Workflow) IsEqual(other *Workflow) bool {
	return other != nil && w.id.IsEqual(other.id)
}

// ID returns the workflow's unique identifier.
func (w *Workflow) ID() kernel.UUID {
	return w.id
}

// Number returns the human-readable, year-scoped workflow number.
func (w *Workflow) Number() string {
	return w.number
}

// BatchID returns the fish batch reference.
func (w *Workflow) BatchID() kernel.UUID {
	return w.batchID
}

// Kind returns the operational classification of the transfer.
func (w *Workflow) Kind() Kind {
	return w.kind
}

// Status returns the current status of the workflow.
func (w *Workflow) Status() Status {
	return w.status
}

// SourceStage returns the lifecycle stage the batch leaves.
func (w *Workflow) SourceStage() StageRef {
	return w.sourceStage
}

// DestinationStage returns the lifecycle stage the batch enters.
func (w *Workflow) DestinationStage() StageRef {
	return w.destinationStage
}

// PlannedStart returns when the operator intends to begin execution.
func (w *Workflow) PlannedStart() time.Time {
	return w.plannedStart
}

// ActualStart returns when the first action executed, nil before that.
func (w *Workflow) ActualStart() *time.Time {
	return w.actualStart
}

// ActualCompletion returns when the workflow completed, nil before that.
func (w *Workflow) ActualCompletion() *time.Time {
	return w.actualCompletion
}

// CancelReason returns the reason recorded at cancellation.
func (w *Workflow) CancelReason() string {
	return w.cancelReason
}

// IsIntercompany reports whether the transfer crosses organizational
// ownership. Advisory for finance; no effect on state transitions.
func (w *Workflow) IsIntercompany() bool {
	return w.isIntercompany
}

// InitiatorID returns the identity that created the workflow.
func (w *Workflow) InitiatorID() kernel.UUID {
	return w.initiatorID
}

// TotalActionsPlanned returns the number of actions in the plan.
func (w *Workflow) TotalActionsPlanned() int {
	return len(w.actions)
}

// ActionsCompleted returns the derived count of handled (completed or
// skipped) actions, as of the last progress recomputation.
func (w *Workflow) ActionsCompleted() int {
	return w.actionsCompleted
}

// CompletionPercentage returns the derived progress metric, as of the
// last progress recomputation.
func (w *Workflow) CompletionPercentage() float64 {
	return w.completionPercentage
}

// Actions returns all actions owned by the workflow.
// The returned slice is a copy to prevent external modification.
func (w *Workflow) Actions() []*transferaction.Action {
	out := make([]*transferaction.Action, len(w.actions))
	copy(out, w.actions)
	return out
}

// Action returns the owned action with the given identifier, or
// ErrActionNotFound if the workflow owns no such action.
func (w *Workflow) Action(actionID kernel.UUID) (*transferaction.Action, error) {
	for _, a := range w.actions {
		if a.ID().IsEqual(actionID) {
			return a, nil
		}
	}
	return nil, ErrActionNotFound
}

// AddAction plans a new action for the workflow. Valid only while the
// workflow is in Draft; the action receives the next contiguous action
// number, starting at 1.
//
// Parameters:
//   - actionID: Unique identifier for the new action
//   - sourceAssignmentID, destinationAssignmentID: Population assignment references
//   - transferredCount: Planned fish count (must be positive)
//   - transferredBiomassKg: Planned biomass (must be positive)
//   - sourcePopulationBefore: Advisory live-count snapshot
//
// Returns the created action, or a StateTransitionError when the workflow
// has left Draft.
func (w *Workflow) AddAction(
	actionID kernel.UUID,
	sourceAssignmentID kernel.UUID,
	destinationAssignmentID kernel.UUID,
	transferredCount int,
	transferredBiomassKg float64,
	sourcePopulationBefore int,
) (*transferaction.Action, error) {
	if w.status != Draft {
		return nil, errs.NewStateTransitionError("workflow", "add action", w.status.String())
	}

	action, err := transferaction.NewAction(
		actionID,
		len(w.actions)+1,
		sourceAssignmentID,
		destinationAssignmentID,
		transferredCount,
		transferredBiomassKg,
		sourcePopulationBefore,
	)
	if err != nil {
		return nil, err
	}

	w.actions = append(w.actions, action)
	return action, nil
}

// Plan freezes the action plan and transitions Draft -> Planned.
// Returns a WorkflowHasNoActionsError when no actions were added.
func (w *Workflow) Plan() error {
	if len(w.actions) == 0 {
		return errs.NewWorkflowHasNoActionsError(w.number)
	}

	newStatus, err := w.status.Plan()
	if err != nil {
		return err
	}

	w.status = newStatus
	return nil
}

// Start transitions Planned -> InProgress and stamps the actual start.
// The action executor calls this on the workflow's first successful
// execution; it is idempotent for a workflow already in progress.
func (w *Workflow) Start(at time.Time) error {
	if w.status == InProgress {
		return nil
	}

	newStatus, err := w.status.Start()
	if err != nil {
		return err
	}

	w.status = newStatus
	w.actualStart = &at
	return nil
}

// Cancel abandons the workflow from Draft, Planned or InProgress.
// Cancellation is terminal: pending actions become permanently
// non-executable. Executions already past their commit point are not
// affected.
func (w *Workflow) Cancel(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("cancel reason")
	}

	newStatus, err := w.status.Cancel()
	if err != nil {
		return err
	}

	w.status = newStatus
	w.cancelReason = reason
	return nil
}

// DetectIntercompany derives whether the transfer crosses organizational
// ownership by comparing the owning companies of the source and
// destination stages. Pure derivation; callers use it only to set the
// advisory flag.
func (w *Workflow) DetectIntercompany() bool {
	return !w.sourceStage.SameCompany(w.destinationStage)
}

// RecomputeProgress recalculates the derived progress fields as a pure
// function of the current action states:
//
//	actionsCompleted     = |{a : a.Status ∈ {Completed, Skipped}}|
//	completionPercentage = 100 × actionsCompleted / totalActionsPlanned
//
// When every action is handled and the workflow is InProgress, it
// auto-transitions to Completed and stamps the actual completion time.
// The method is idempotent: repeated calls without intervening action
// changes produce identical results, so concurrent invocations converge
// regardless of call order.
func (w *Workflow) RecomputeProgress(now time.Time) error {
	w.refreshProgress()

	if len(w.actions) == 0 || w.actionsCompleted != len(w.actions) {
		return nil
	}

	if w.status != InProgress {
		return nil
	}

	newStatus, err := w.status.Complete()
	if err != nil {
		return err
	}

	w.status = newStatus
	w.actualCompletion = &now
	return nil
}

// refreshProgress recalculates actionsCompleted and completionPercentage
// from the current action states.
func (w *Workflow) refreshProgress() {
	handled := 0
	for _, a := range w.actions {
		if a.Status().IsHandled() {
			handled++
		}
	}

	w.actionsCompleted = handled
	if len(w.actions) == 0 {
		w.completionPercentage = 0
		return
	}
	w.completionPercentage = 100 * float64(handled) / float64(len(w.actions))
}

func (w *Workflow) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *Workflow) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("workflow number")
	}
	w.number = number
	return nil
}

func (w *Workflow) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}
	w.batchID = batchID
	return nil
}

func (w *Workflow) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	w.kind = kind
	return nil
}

func (w *Workflow) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	w.status = status
	return nil
}

func (w *Workflow) setStages(source, destination StageRef) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if err := destination.Validate(); err != nil {
		return err
	}

	w.sourceStage = source
	w.destinationStage = destination
	return nil
}

func (w *Workflow) setPlannedStart(plannedStart time.Time) error {
	if plannedStart.IsZero() {
		return errs.NewValueIsRequiredError("plannedStart")
	}
	w.plannedStart = plannedStart
	return nil
}

func (w *Workflow) setInitiatorID(initiatorID kernel.UUID) error {
	if err := initiatorID.Validate(); err != nil {
		return err
	}
	w.initiatorID = initiatorID
	return nil
}

func (w *Workflow) setActions(actions []*transferaction.Action) error {
	seen := make(map[int]bool, len(actions))
	for _, a := range actions {
		if err := a.Validate(); err != nil {
			return err
		}
		if seen[a.ActionNumber()] {
			return errs.NewDuplicateActionNumberError(a.ActionNumber())
		}
		seen[a.ActionNumber()] = true
	}

	// action numbers must be contiguous from 1
	for n := 1; n <= len(actions); n++ {
		if !seen[n] {
			return errs.NewValueIsInvalidErrorWithCause("actions are invalid",
				fmt.Errorf("action numbers are not contiguous: %d is missing", n))
		}
	}

	w.actions = actions
	return nil
}
