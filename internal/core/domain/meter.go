package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MeterType identifies which utility a meter measures.
type MeterType string

const (
	MeterElectricity MeterType = "electricity"
	MeterWater       MeterType = "water"
)

// Valid reports whether the meter type is one of the known utilities.
func (t MeterType) Valid() bool {
	return t == MeterElectricity || t == MeterWater
}

// Unit returns the resource unit for the meter type (kWh or liters).
func (t MeterType) Unit() string {
	if t == MeterWater {
		return "L"
	}
	return "kWh"
}

// Meter holds the per-user configuration for one utility meter.
// Invariant: CriticalThreshold < LowThreshold, enforced at input time.
type Meter struct {
	MeterID           string
	UserID            string
	MeterType         MeterType
	MeterNumber       string
	LowThreshold      decimal.Decimal
	CriticalThreshold decimal.Decimal
	AutoPurchase      bool
	UsageLimit        *decimal.Decimal
	IsPaused          bool
	AuditFields
}

// MeterReading is the live resource balance of a meter, in units with three
// decimal places. There is exactly one live reading per (user, meter type).
// The balance is mutated by purchase transitions and by the simulated decay
// process; both use relative updates so the writers can interleave safely.
type MeterReading struct {
	ReadingID     string
	UserID        string
	MeterID       string
	MeterType     MeterType
	Balance       decimal.Decimal
	LastDecrement decimal.Decimal
	Timestamp     time.Time
}

// MeterStatus pairs a meter's configuration with its live reading. Used by the
// decay simulation to decide decrements and auto-purchases in one pass.
type MeterStatus struct {
	Meter   Meter
	Reading MeterReading
}
