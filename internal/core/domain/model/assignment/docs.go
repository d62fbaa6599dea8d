// Package assignment provides the population-ledger Assignment entity:
// the live count and biomass a batch holds in a specific container.
//
// The ledger is the single source of truth for live population. Only the
// action executor mutates assignments, inside an atomic unit of work and
// under a per-record exclusive lock, so concurrent transfers from the
// same source are serialized and can never overdraw it.
package assignment
