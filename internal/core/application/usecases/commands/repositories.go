// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"transferflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// WorkflowRepoFactory provides access to the workflow repository within a transaction.
	WorkflowRepoFactory interface {
		WorkflowRepository() ports.WorkflowRepository
	}

	// AssignmentRepoFactory provides access to the population-ledger repository within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// WorkflowUoW manages transactions for workflow-only operations.
	// Used when commands only modify the workflow aggregate.
	WorkflowUoW interface {
		TxManager
		WorkflowRepoFactory
	}

	// WorkflowUoWFactory creates new workflow unit of work instances.
	WorkflowUoWFactory interface {
		Create() WorkflowUoW
	}

	// UoW manages transactions across the workflow aggregate and the
	// population ledger. Used by commands that move fish: execution and
	// rollback adjust ledger assignments and the workflow atomically.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   workflowRepo := uow.WorkflowRepository()
	//   assignmentRepo := uow.AssignmentRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		WorkflowRepoFactory
		AssignmentRepoFactory
	}

	// UoWFactory creates new unit of work instances for ledger-touching operations.
	UoWFactory interface {
		Create() UoW
	}
)
