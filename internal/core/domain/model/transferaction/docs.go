// Package transferaction provides the Action child entity of the transfer
// workflow aggregate: one atomic container-to-container population movement.
//
// The package includes:
//   - Action: the entity carrying planned quantities, execution record and
//     opaque metadata
//   - Status: the action-level state machine
//     (Pending/InProgress/Completed/Failed/Skipped)
//   - Method: the physical transfer technique enum
//
// Key business rules:
//   - Actions are created and owned exclusively by a Workflow; they never
//     outlive it
//   - Execution, skip, rollback and retry follow the Status state machine
//   - Skipped actions count toward workflow completion without touching
//     the population ledger
//   - Environmental readings and notes travel as opaque metadata and never
//     influence transitions
package transferaction
