package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// MeterRepository defines persistence operations for meters and their live
// readings.
type MeterRepository interface {
	// SaveMeterWithReading inserts a meter and its initial reading in one
	// database transaction.
	SaveMeterWithReading(ctx context.Context, meter domain.Meter, reading domain.MeterReading) error

	FindMeterByUserAndType(ctx context.Context, userID string, meterType domain.MeterType) (*domain.Meter, error)
	UpdateMeterConfig(ctx context.Context, meter domain.Meter) error

	FindLiveReading(ctx context.Context, userID string, meterType domain.MeterType) (*domain.MeterReading, error)

	// ListMeterStatuses returns every meter of active users together with its
	// live reading. Used by the decay simulation.
	ListMeterStatuses(ctx context.Context) ([]domain.MeterStatus, error)

	// ApplyDecrement atomically subtracts amount from a reading, clamping at
	// zero, and returns the new balance. The update is relative so it can
	// interleave with purchase increments on the same row.
	ApplyDecrement(ctx context.Context, readingID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error)
}
