package ports

import (
	"context"
	"time"
)

// WorkflowNotification summarizes a workflow state change for the finance
// and audit collaborators. Both consumers are external to the engine;
// delivery is best-effort and never affects committed core state.
type WorkflowNotification struct {
	WorkflowID     string
	WorkflowNumber string
	BatchID        string
	Kind           string
	Status         string
	IsIntercompany bool
	ActorID        string
	OccurredAt     time.Time
}

// ActionNotification summarizes an action state change for the finance
// and audit collaborators.
type ActionNotification struct {
	WorkflowID       string
	WorkflowNumber   string
	ActionID         string
	ActionNumber     int
	Status           string
	PriorStatus      string
	TransferredCount int
	TransferredKg    float64
	Mortality        int
	IsIntercompany   bool
	ActorID          string
	OccurredAt       time.Time
}

// NotificationPublisher delivers best-effort notifications to the
// finance/audit collaborators after a core transaction has committed.
// Implementations must be fire-and-forget from the caller's perspective:
// a failure is logged as a warning and never propagated, so it cannot
// roll back or delay the already-committed core transaction.
type NotificationPublisher interface {
	// PublishWorkflowPlanned notifies collaborators that a workflow's
	// plan was frozen (carrying the advisory intercompany flag).
	PublishWorkflowPlanned(ctx context.Context, n WorkflowNotification) error

	// PublishActionExecuted notifies collaborators of an action state
	// change (execution, skip, rollback or retry).
	PublishActionExecuted(ctx context.Context, n ActionNotification) error
}
