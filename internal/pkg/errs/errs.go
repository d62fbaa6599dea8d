package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the generic failure categories.
// Use errors.Is with these to classify an error without
// depending on the concrete wrapper type.
var (
	// ErrObjectNotFound indicates a requested object does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrValueIsInvalid indicates a value failed validation.
	ErrValueIsInvalid = errors.New("value is invalid")

	// ErrValueIsOutOfRange indicates a value is outside its allowed bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")

	// ErrValueIsRequired indicates a required value is missing.
	ErrValueIsRequired = errors.New("value is required")

	// ErrVersionIsInvalid indicates an entity version mismatch or malformed version.
	ErrVersionIsInvalid = errors.New("version is invalid")
)

// Sentinel errors for the transfer workflow failure taxonomy.
var (
	// ErrStateTransition indicates an operation is not valid for the
	// entity's current state. The entity is left untouched.
	ErrStateTransition = errors.New("state transition is not allowed")

	// ErrConcurrencyConflict indicates a lost lock race or stale read.
	// The operation performed no mutation and may be retried.
	ErrConcurrencyConflict = errors.New("concurrent modification detected")

	// ErrInsufficientSourcePopulation indicates an execution demanded more
	// fish than the live source assignment holds.
	ErrInsufficientSourcePopulation = errors.New("insufficient source population")

	// ErrWorkflowHasNoActions indicates an attempt to plan a workflow
	// before any action was added to it.
	ErrWorkflowHasNoActions = errors.New("workflow has no actions")

	// ErrDuplicateActionNumber indicates an action number collision
	// within a single workflow.
	ErrDuplicateActionNumber = errors.New("duplicate action number")

	// ErrDestinationAlreadyDrawn indicates a rollback was refused because a
	// later transfer already drew population out of the destination assignment.
	ErrDestinationAlreadyDrawn = errors.New("destination assignment already drawn down")

	// ErrExternalHookFailure indicates a best-effort finance/audit
	// notification failed. Core state is unaffected.
	ErrExternalHookFailure = errors.New("external hook failure")
)

// sanitize flattens newlines so error messages stay single-line in logs.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// ObjectNotFoundError indicates that an object identified by ID could not be found.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without an underlying cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError indicates that a named value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without an underlying cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates that a named value is outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without an underlying cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError wrapping an underlying cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError indicates that a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without an underlying cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// VersionIsInvalidError indicates an entity version mismatch or malformed version.
type VersionIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewVersionIsInvalidError creates a VersionIsInvalidError wrapping an underlying cause.
func NewVersionIsInvalidError(paramName string, cause error) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName, Cause: cause}
}

// NewVersionIsInvalidErrorWithCause creates a VersionIsInvalidError without an underlying cause.
func NewVersionIsInvalidErrorWithCause(paramName string) *VersionIsInvalidError {
	return &VersionIsInvalidError{ParamName: paramName}
}

func (e *VersionIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrVersionIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrVersionIsInvalid, e.ParamName))
}

func (e *VersionIsInvalidError) Unwrap() error {
	return ErrVersionIsInvalid
}

// StateTransitionError indicates an operation that is not valid for the
// entity's current state. The entity is left untouched.
type StateTransitionError struct {
	Entity    string
	Operation string
	State     string
	Cause     error
}

// NewStateTransitionError creates a StateTransitionError for the given
// entity, attempted operation and current state.
func NewStateTransitionError(entity, operation, state string) *StateTransitionError {
	return &StateTransitionError{Entity: entity, Operation: operation, State: state}
}

// NewStateTransitionErrorWithCause creates a StateTransitionError wrapping an underlying cause.
func NewStateTransitionErrorWithCause(entity, operation, state string, cause error) *StateTransitionError {
	return &StateTransitionError{Entity: entity, Operation: operation, State: state, Cause: cause}
}

func (e *StateTransitionError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: cannot %s %s in state %s (cause: %s)",
			ErrStateTransition, e.Operation, e.Entity, e.State, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: cannot %s %s in state %s",
		ErrStateTransition, e.Operation, e.Entity, e.State))
}

func (e *StateTransitionError) Unwrap() error {
	return ErrStateTransition
}

// ConcurrencyConflictError indicates a lost lock race or stale read.
// No mutation occurred; the caller should retry.
type ConcurrencyConflictError struct {
	ParamName string
	Cause     error
}

// NewConcurrencyConflictError creates a ConcurrencyConflictError without an underlying cause.
func NewConcurrencyConflictError(paramName string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{ParamName: paramName}
}

// NewConcurrencyConflictErrorWithCause creates a ConcurrencyConflictError wrapping an underlying cause.
func NewConcurrencyConflictErrorWithCause(paramName string, cause error) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{ParamName: paramName, Cause: cause}
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrConcurrencyConflict, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrConcurrencyConflict, e.ParamName))
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// InsufficientSourcePopulationError indicates that an execution demanded
// more fish than the live source assignment holds. No mutation occurred.
type InsufficientSourcePopulationError struct {
	ParamName string
	Requested int
	Available int
}

// NewInsufficientSourcePopulationError creates an InsufficientSourcePopulationError
// for a source assignment identified by paramName.
func NewInsufficientSourcePopulationError(paramName string, requested, available int) *InsufficientSourcePopulationError {
	return &InsufficientSourcePopulationError{ParamName: paramName, Requested: requested, Available: available}
}

func (e *InsufficientSourcePopulationError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s requires %d, only %d available",
		ErrInsufficientSourcePopulation, e.ParamName, e.Requested, e.Available))
}

func (e *InsufficientSourcePopulationError) Unwrap() error {
	return ErrInsufficientSourcePopulation
}

// WorkflowHasNoActionsError indicates an attempt to plan a workflow with no actions.
type WorkflowHasNoActionsError struct {
	WorkflowNumber string
}

// NewWorkflowHasNoActionsError creates a WorkflowHasNoActionsError for the given workflow number.
func NewWorkflowHasNoActionsError(workflowNumber string) *WorkflowHasNoActionsError {
	return &WorkflowHasNoActionsError{WorkflowNumber: workflowNumber}
}

func (e *WorkflowHasNoActionsError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s", ErrWorkflowHasNoActions, e.WorkflowNumber))
}

func (e *WorkflowHasNoActionsError) Unwrap() error {
	return ErrWorkflowHasNoActions
}

// DuplicateActionNumberError indicates an action number collision within a workflow.
type DuplicateActionNumberError struct {
	ActionNumber int
}

// NewDuplicateActionNumberError creates a DuplicateActionNumberError for the given number.
func NewDuplicateActionNumberError(actionNumber int) *DuplicateActionNumberError {
	return &DuplicateActionNumberError{ActionNumber: actionNumber}
}

func (e *DuplicateActionNumberError) Error() string {
	return sanitize(fmt.Sprintf("%s: %d", ErrDuplicateActionNumber, e.ActionNumber))
}

func (e *DuplicateActionNumberError) Unwrap() error {
	return ErrDuplicateActionNumber
}

// DestinationAlreadyDrawnError indicates a rollback refused because the destination
// assignment no longer holds the transferred population.
type DestinationAlreadyDrawnError struct {
	ParamName string
	Required  int
	Available int
}

// NewDestinationAlreadyDrawnError creates a DestinationAlreadyDrawnError
// for a destination assignment identified by paramName.
func NewDestinationAlreadyDrawnError(paramName string, required, available int) *DestinationAlreadyDrawnError {
	return &DestinationAlreadyDrawnError{ParamName: paramName, Required: required, Available: available}
}

func (e *DestinationAlreadyDrawnError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s holds %d, reversal requires %d",
		ErrDestinationAlreadyDrawn, e.ParamName, e.Available, e.Required))
}

func (e *DestinationAlreadyDrawnError) Unwrap() error {
	return ErrDestinationAlreadyDrawn
}

// ExternalHookFailureError indicates a best-effort finance/audit notification
// failed. Core state is unaffected; the error exists for logging only.
type ExternalHookFailureError struct {
	Hook  string
	Cause error
}

// NewExternalHookFailureError creates an ExternalHookFailureError wrapping the hook failure.
func NewExternalHookFailureError(hook string, cause error) *ExternalHookFailureError {
	return &ExternalHookFailureError{Hook: hook, Cause: cause}
}

func (e *ExternalHookFailureError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrExternalHookFailure, e.Hook, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrExternalHookFailure, e.Hook))
}

func (e *ExternalHookFailureError) Unwrap() error {
	return ErrExternalHookFailure
}
