// Package guard provides the ConstructorGuard defensive pattern for commands
// and queries. Embedding a ConstructorGuard in a struct makes zero-value
// instances detectable, so objects that bypassed their constructor fail
// validation instead of carrying unvalidated state into handlers.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the guard is a zero
// value and no specific error was supplied by the caller.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as created through its designated
// constructor. The zero value is "not constructed" and fails Validate.
//
// Example:
//
//	type PlanWorkflowCommand struct {
//	    workflowID kernel.UUID
//	    guard      guard.ConstructorGuard
//	}
//
//	func NewPlanWorkflowCommand(id kernel.UUID) (PlanWorkflowCommand, error) {
//	    return PlanWorkflowCommand{workflowID: id, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c PlanWorkflowCommand) Validate() error {
//	    return c.guard.Validate(ErrPlanWorkflowCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks its holder as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a properly constructed guard. For a zero-value
// guard it returns notConstructedErr, or ErrDefaultConstructorGuard when
// notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.isConstructed {
		return nil
	}

	if notConstructedErr == nil {
		return ErrDefaultConstructorGuard
	}

	return notConstructedErr
}
