package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	"github.com/utilityguy/utility-backend/internal/models"
	"github.com/utilityguy/utility-backend/internal/utils/mapping"
)

type PgxMeterRepository struct {
	BaseRepository
}

func newPgxMeterRepository(pool *pgxpool.Pool) portsrepo.MeterRepository {
	return &PgxMeterRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MeterRepository = (*PgxMeterRepository)(nil)

// SaveMeterWithReading inserts a meter and its seed reading in one database
// transaction so a meter can never exist without a live reading.
func (r *PgxMeterRepository) SaveMeterWithReading(ctx context.Context, meter domain.Meter, reading domain.MeterReading) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelMeter(meter)
	meterQuery := `
		INSERT INTO meters (meter_id, user_id, meter_type, meter_number, low_threshold, critical_threshold,
			auto_purchase, usage_limit, is_paused, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, meterQuery,
		m.MeterID,
		m.UserID,
		m.MeterType,
		m.MeterNumber,
		m.LowThreshold,
		m.CriticalThreshold,
		m.AutoPurchase,
		m.UsageLimit,
		m.IsPaused,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meter: %w", err)
	}

	mr := mapping.ToModelMeterReading(reading)
	readingQuery := `
		INSERT INTO meter_readings (reading_id, user_id, meter_id, meter_type, balance, last_decrement, reading_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, readingQuery,
		mr.ReadingID,
		mr.UserID,
		mr.MeterID,
		mr.MeterType,
		mr.Balance,
		mr.LastDecrement,
		mr.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meter reading: %w", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxMeterRepository) FindMeterByUserAndType(ctx context.Context, userID string, meterType domain.MeterType) (*domain.Meter, error) {
	query := `
		SELECT meter_id, user_id, meter_type, meter_number, low_threshold, critical_threshold,
		       auto_purchase, usage_limit, is_paused, created_at, created_by, last_updated_at, last_updated_by
		FROM meters
		WHERE user_id = $1 AND meter_type = $2;
	`
	var m models.Meter
	err := r.Pool.QueryRow(ctx, query, userID, string(meterType)).Scan(
		&m.MeterID,
		&m.UserID,
		&m.MeterType,
		&m.MeterNumber,
		&m.LowThreshold,
		&m.CriticalThreshold,
		&m.AutoPurchase,
		&m.UsageLimit,
		&m.IsPaused,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMeterNotFound
		}
		return nil, fmt.Errorf("failed to find %s meter for user %s: %w", meterType, userID, err)
	}

	domainMeter := mapping.ToDomainMeter(m)
	return &domainMeter, nil
}

func (r *PgxMeterRepository) UpdateMeterConfig(ctx context.Context, meter domain.Meter) error {
	m := mapping.ToModelMeter(meter)
	query := `
		UPDATE meters
		SET low_threshold = $1, critical_threshold = $2, auto_purchase = $3, usage_limit = $4,
		    is_paused = $5, last_updated_at = $6, last_updated_by = $7
		WHERE meter_id = $8;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.LowThreshold,
		m.CriticalThreshold,
		m.AutoPurchase,
		m.UsageLimit,
		m.IsPaused,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.MeterID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meter config: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMeterNotFound
	}
	return nil
}

func (r *PgxMeterRepository) FindLiveReading(ctx context.Context, userID string, meterType domain.MeterType) (*domain.MeterReading, error) {
	query := `
		SELECT reading_id, user_id, meter_id, meter_type, balance, last_decrement, reading_timestamp
		FROM meter_readings
		WHERE user_id = $1 AND meter_type = $2;
	`
	var m models.MeterReading
	err := r.Pool.QueryRow(ctx, query, userID, string(meterType)).Scan(
		&m.ReadingID,
		&m.UserID,
		&m.MeterID,
		&m.MeterType,
		&m.Balance,
		&m.LastDecrement,
		&m.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMeterNotFound
		}
		return nil, fmt.Errorf("failed to find %s reading for user %s: %w", meterType, userID, err)
	}

	reading := mapping.ToDomainMeterReading(m)
	return &reading, nil
}

// ListMeterStatuses joins every meter of an active user with its live reading.
func (r *PgxMeterRepository) ListMeterStatuses(ctx context.Context) ([]domain.MeterStatus, error) {
	query := `
		SELECT m.meter_id, m.user_id, m.meter_type, m.meter_number, m.low_threshold, m.critical_threshold,
		       m.auto_purchase, m.usage_limit, m.is_paused,
		       r.reading_id, r.balance, r.last_decrement, r.reading_timestamp
		FROM meters m
		JOIN meter_readings r ON r.meter_id = m.meter_id
		JOIN users u ON u.user_id = m.user_id
		WHERE u.is_active = TRUE AND u.deleted_at IS NULL;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query meter statuses: %w", err)
	}
	defer rows.Close()

	statuses := []domain.MeterStatus{}
	for rows.Next() {
		var m models.Meter
		var reading models.MeterReading
		err := rows.Scan(
			&m.MeterID,
			&m.UserID,
			&m.MeterType,
			&m.MeterNumber,
			&m.LowThreshold,
			&m.CriticalThreshold,
			&m.AutoPurchase,
			&m.UsageLimit,
			&m.IsPaused,
			&reading.ReadingID,
			&reading.Balance,
			&reading.LastDecrement,
			&reading.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meter status row: %w", err)
		}
		reading.UserID = m.UserID
		reading.MeterID = m.MeterID
		reading.MeterType = m.MeterType
		statuses = append(statuses, domain.MeterStatus{
			Meter:   mapping.ToDomainMeter(m),
			Reading: mapping.ToDomainMeterReading(reading),
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meter status rows: %w", rows.Err())
	}

	return statuses, nil
}

// ApplyDecrement subtracts amount from a reading, clamping at zero. The update
// is relative so concurrent purchase increments on the same row are never lost.
func (r *PgxMeterRepository) ApplyDecrement(ctx context.Context, readingID string, amount decimal.Decimal, at time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE meter_readings
		SET balance = GREATEST(0, balance - $1), last_decrement = $1, reading_timestamp = $2
		WHERE reading_id = $3
		RETURNING balance;
	`
	var newBalance decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, amount, at, readingID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrMeterNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to apply decrement to reading %s: %w", readingID, err)
	}
	return newBalance, nil
}
