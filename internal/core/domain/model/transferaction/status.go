package transferaction

import (
	"fmt"

	"transferflow/internal/pkg/errs"
)

// Status represents the execution state of a single transfer action.
// It implements the action-level half of the two-level state machine:
//
//	Pending ──(execute)──> InProgress ──> Completed ──(rollback)──> Pending
//	   │                        │
//	   │                        └───────> Failed ──(retry)──> Pending
//	   └──(skip)──> Skipped
//
// Completed, Failed and Skipped are rest states; Completed and Failed can
// be left again via rollback and retry. InProgress is transient: the
// executor passes through it inside a single atomic unit of work, so
// persisted actions are normally observed in one of the four rest states.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Pending indicates the action awaits execution.
	Pending

	// InProgress indicates the action is currently executing.
	InProgress

	// Completed indicates the action executed and the ledger was adjusted.
	Completed

	// Failed indicates an execution attempt aborted without ledger effect.
	Failed

	// Skipped indicates an operator handled the action outside the system;
	// it counts toward workflow completion without any ledger effect.
	Skipped
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Pending:       "Pending",
		InProgress:    "InProgress",
		Completed:     "Completed",
		Failed:        "Failed",
		Skipped:       "Skipped",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "Pending",
		InProgress: "InProgress",
		Completed:  "Completed",
		Failed:     "Failed",
		Skipped:    "Skipped",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid action status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// It implements fmt.Stringer and returns "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsHandled reports whether the action counts toward workflow completion.
// Both executed and deliberately skipped actions are handled.
func (s Status) IsHandled() bool {
	return s == Completed || s == Skipped
}

// Begin transitions the status from Pending to InProgress.
func (s Status) Begin() (Status, error) {
	if s != Pending {
		return 0, errs.NewStateTransitionError("action", "execute", s.String())
	}

	return InProgress, nil
}

// Complete transitions the status to Completed after a successful execution.
//
// Valid transitions:
//   - InProgress -> Completed
//   - Pending -> Completed (executor collapses Begin+Complete in one unit)
func (s Status) Complete() (Status, error) {
	if s != Pending && s != InProgress {
		return 0, errs.NewStateTransitionError("action", "complete", s.String())
	}

	return Completed, nil
}

// Fail transitions the status to Failed after an aborted execution attempt.
//
// Valid transitions:
//   - InProgress -> Failed
//   - Pending -> Failed
func (s Status) Fail() (Status, error) {
	if s != Pending && s != InProgress {
		return 0, errs.NewStateTransitionError("action", "fail", s.String())
	}

	return Failed, nil
}

// Skip transitions the status from Pending to Skipped.
func (s Status) Skip() (Status, error) {
	if s != Pending {
		return 0, errs.NewStateTransitionError("action", "skip", s.String())
	}

	return Skipped, nil
}

// Rollback transitions the status from Completed back to Pending, after
// the executor reversed the ledger mutation.
func (s Status) Rollback() (Status, error) {
	if s != Completed {
		return 0, errs.NewStateTransitionError("action", "rollback", s.String())
	}

	return Pending, nil
}

// Retry transitions the status from Failed back to Pending, permitting a
// subsequent execution attempt.
func (s Status) Retry() (Status, error) {
	if s != Failed {
		return 0, errs.NewStateTransitionError("action", "retry", s.String())
	}

	return Pending, nil
}
