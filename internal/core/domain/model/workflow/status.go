package workflow

import (
	"fmt"

	"transferflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a transfer workflow.
// It implements a state machine with defined transitions so workflows
// always follow the operational planning/execution sequence.
//
// State transitions:
//
//	Draft ──> Planned ──> InProgress ──> Completed
//	  │          │             │
//	  └──────────┴─────────────┴──────> Cancelled
//
// Completed and Cancelled are terminal: no transition leaves them.
// The Planned -> InProgress transition fires on the first successful
// action execution; InProgress -> Completed is derived from action
// states and never requested directly by a caller.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Draft is the initial status. Actions may be added only while
	// the workflow is in Draft.
	Draft

	// Planned indicates the action plan is frozen and execution may begin.
	Planned

	// InProgress indicates at least one action has executed successfully.
	InProgress

	// Completed indicates every action is completed or skipped.
	// This is a terminal state.
	Completed

	// Cancelled indicates the workflow was abandoned by an operator.
	// This is a terminal state; pending actions become permanently
	// non-executable.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "Unknown",
		Draft:         "Draft",
		Planned:       "Planned",
		InProgress:    "InProgress",
		Completed:     "Completed",
		Cancelled:     "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Draft:      "Draft",
		Planned:    "Planned",
		InProgress: "InProgress",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

// Validate checks if the Status value is valid.
// StatusUnknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// It implements fmt.Stringer and is safe on any Status value,
// returning "Unknown" for invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsExecutable reports whether actions of a workflow in this status may
// be executed or skipped. Execution requires a frozen plan, so only
// Planned and InProgress qualify.
func (s Status) IsExecutable() bool {
	return s == Planned || s == InProgress
}

// Plan transitions the status from Draft to Planned.
//
// Valid transitions:
//   - Draft -> Planned
//
// Returns (0, error) with a StateTransitionError for any other current status.
func (s Status) Plan() (Status, error) {
	if s != Draft {
		return 0, errs.NewStateTransitionError("workflow", "plan", s.String())
	}

	return Planned, nil
}

// Start transitions the status from Planned to InProgress.
// Fired by the first successful action execution.
//
// Valid transitions:
//   - Planned -> InProgress
//
// Returns (0, error) with a StateTransitionError for any other current status.
func (s Status) Start() (Status, error) {
	if s != Planned {
		return 0, errs.NewStateTransitionError("workflow", "start", s.String())
	}

	return InProgress, nil
}

// Complete transitions the status from InProgress to Completed.
// Only the progress recomputation calls this, after it observes that
// every action is completed or skipped.
//
// Valid transitions:
//   - InProgress -> Completed
//
// Returns (0, error) with a StateTransitionError for any other current status.
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return 0, errs.NewStateTransitionError("workflow", "complete", s.String())
	}

	return Completed, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Draft -> Cancelled
//   - Planned -> Cancelled
//   - InProgress -> Cancelled
//
// Returns (0, error) with a StateTransitionError when the current status
// is terminal or invalid.
func (s Status) Cancel() (Status, error) {
	if s != Draft && s != Planned && s != InProgress {
		return 0, errs.NewStateTransitionError("workflow", "cancel", s.String())
	}

	return Cancelled, nil
}
