package workflow

import (
	"fmt"

	"transferflow/internal/pkg/errs"
)

// Kind classifies the operational purpose of a transfer workflow.
// The kind is descriptive: it drives reporting and finance summaries
// but never alters state-machine behavior.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// LifecycleTransition moves a batch between lifecycle stages,
	// for example smolt to on-growing.
	LifecycleTransition

	// ContainerRedistribution rebalances a batch across containers
	// within the same lifecycle stage.
	ContainerRedistribution

	// EmergencyCascade evacuates containers after an incident such as
	// equipment failure or a disease outbreak.
	EmergencyCascade

	// PartialHarvestPrep stages part of a batch into harvest containers.
	PartialHarvestPrep
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:             "Unknown",
		LifecycleTransition:     "LifecycleTransition",
		ContainerRedistribution: "ContainerRedistribution",
		EmergencyCascade:        "EmergencyCascade",
		PartialHarvestPrep:      "PartialHarvestPrep",
	}
}

func getValidKindStrings() map[Kind]string {
	//nolint:exhaustive // KindUnknown is intentionally excluded as it's invalid
	return map[Kind]string{
		LifecycleTransition:     "LifecycleTransition",
		ContainerRedistribution: "ContainerRedistribution",
		EmergencyCascade:        "EmergencyCascade",
		PartialHarvestPrep:      "PartialHarvestPrep",
	}
}

// Validate checks if the Kind value is valid.
func (k Kind) Validate() error {
	if _, ok := getValidKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind is invalid",
			fmt.Errorf("%d is not a valid workflow kind", k))
	}
	return nil
}

// String returns the human-readable name of the kind.
// It implements fmt.Stringer and returns "Unknown" for invalid values.
func (k Kind) String() string {
	if str, ok := getKindStrings()[k]; ok {
		return str
	}
	return "Unknown"
}
