package ports

import "context"

// NumberingService issues unique, year-scoped, human-readable workflow
// numbers. Implementations must guarantee uniqueness under concurrent
// callers with an atomic increment primitive — never a read-then-increment
// race over a "max + 1" query.
type NumberingService interface {
	// Next returns the next workflow number for the given year,
	// formatted as a zero-padded running integer (e.g. "TRF-2026-000042").
	Next(ctx context.Context, year int) (string, error)
}
