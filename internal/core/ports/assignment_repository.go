package ports

import (
	"context"

	"transferflow/internal/core/domain/model/assignment"
	"transferflow/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for population
// ledger assignments. The ledger is the single source of truth for live
// population; mutating reads go through GetForUpdate so that concurrent
// transfers from the same assignment are serialized by the database's
// row-level lock.
type AssignmentRepository interface {
	// Add persists a new assignment record.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Get retrieves an assignment without locking. Suitable for
	// advisory snapshots only; execution must use GetForUpdate.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetForUpdate retrieves an assignment holding an exclusive lock on
	// its record for the rest of the transaction. At most one execute
	// can hold a given assignment at a time, so combined demand can
	// never overdraw the source.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// Update persists changes to an existing assignment record.
	Update(ctx context.Context, aggregate *assignment.Assignment) error
}
