package transferaction

import (
	"fmt"

	"transferflow/internal/pkg/errs"
)

// Method describes the physical technique used to move fish between
// containers. It is recorded on the action for traceability and has no
// effect on state-machine behavior.
type Method int

const (
	// MethodUnknown represents an invalid or undefined method.
	MethodUnknown Method = iota

	// Net indicates manual netting between adjacent containers.
	Net

	// Pump indicates a fish pump with counting equipment in line.
	Pump

	// Gravity indicates a gravity-fed pipe transfer.
	Gravity

	// Manual indicates bucket or brail transfer of small counts.
	Manual
)

func getMethodStrings() map[Method]string {
	return map[Method]string{
		MethodUnknown: "Unknown",
		Net:           "Net",
		Pump:          "Pump",
		Gravity:       "Gravity",
		Manual:        "Manual",
	}
}

func getValidMethodStrings() map[Method]string {
	//nolint:exhaustive // MethodUnknown is intentionally excluded as it's invalid
	return map[Method]string{
		Net:     "Net",
		Pump:    "Pump",
		Gravity: "Gravity",
		Manual:  "Manual",
	}
}

// Validate checks if the Method value is valid.
func (m Method) Validate() error {
	if _, ok := getValidMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transfer method is invalid",
			fmt.Errorf("%d is not a valid transfer method", m))
	}
	return nil
}

// String returns the human-readable name of the method.
// It implements fmt.Stringer and returns "Unknown" for invalid values.
func (m Method) String() string {
	if str, ok := getMethodStrings()[m]; ok {
		return str
	}
	return "Unknown"
}
