package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Meter is the database representation of a utility meter configuration.
type Meter struct {
	MeterID           string               `db:"meter_id"`
	UserID            string               `db:"user_id"`
	MeterType         string               `db:"meter_type"`
	MeterNumber       string               `db:"meter_number"`
	LowThreshold      decimal.Decimal      `db:"low_threshold"`
	CriticalThreshold decimal.Decimal      `db:"critical_threshold"`
	AutoPurchase      bool                 `db:"auto_purchase"`
	UsageLimit        decimal.NullDecimal  `db:"usage_limit"`
	IsPaused          bool                 `db:"is_paused"`
	AuditFields
}

// MeterReading is the database representation of a live meter balance.
type MeterReading struct {
	ReadingID     string          `db:"reading_id"`
	UserID        string          `db:"user_id"`
	MeterID       string          `db:"meter_id"`
	MeterType     string          `db:"meter_type"`
	Balance       decimal.Decimal `db:"balance"`
	LastDecrement decimal.Decimal `db:"last_decrement"`
	Timestamp     time.Time       `db:"reading_timestamp"`
}
