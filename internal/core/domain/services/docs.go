// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the transfer engine. It implements
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - TransferExecutor: A domain service applying transfer actions to the
//     population ledger and reversing them on rollback
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
