// Package numbering issues year-scoped, human-readable workflow numbers
// backed by a per-year counter row. The counter advances with a single
// atomic upsert, so concurrent callers can never observe the same value
// and a failed workflow creation at worst leaves a gap in the sequence.
package numbering

import (
	"context"
	"fmt"

	"transferflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// numberFormat produces values like "TRF-2026-000042".
const numberFormat = "TRF-%d-%06d"

// CounterDTO represents the per-year counter row backing the sequence.
type CounterDTO struct {
	Year      int `gorm:"primaryKey"`
	LastValue int64
}

// TableName specifies the database table name for counter rows.
func (CounterDTO) TableName() string {
	return "workflow_numbers"
}

// PostgresNumberingService implements NumberingService on top of a
// per-year counter table.
type PostgresNumberingService struct {
	db *gorm.DB
}

// NewPostgresNumberingService creates a numbering service backed by the
// given database connection.
func NewPostgresNumberingService(db *gorm.DB) *PostgresNumberingService {
	return &PostgresNumberingService{db: db}
}

// Next returns the next workflow number for the given year.
//
// The increment happens entirely inside the database: the upsert either
// inserts the year's first counter row or bumps the existing one, and the
// new value is returned from the same statement. Two concurrent calls for
// the same year serialize on the row and receive distinct values.
func (s *PostgresNumberingService) Next(ctx context.Context, year int) (string, error) {
	if year <= 0 {
		return "", errs.NewValueIsInvalidError("year")
	}

	var lastValue int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO workflow_numbers (year, last_value)
		VALUES (?, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_value = workflow_numbers.last_value + 1
		RETURNING last_value
	`, year).Scan(&lastValue).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(numberFormat, year, lastValue), nil
}
