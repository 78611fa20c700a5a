package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/core/domain"
	"github.com/utilityguy/utility-backend/internal/models"
)

// ToModelMeter converts a domain Meter to a model Meter
func ToModelMeter(d domain.Meter) models.Meter {
	m := models.Meter{
		MeterID:           d.MeterID,
		UserID:            d.UserID,
		MeterType:         string(d.MeterType),
		MeterNumber:       d.MeterNumber,
		LowThreshold:      d.LowThreshold,
		CriticalThreshold: d.CriticalThreshold,
		AutoPurchase:      d.AutoPurchase,
		IsPaused:          d.IsPaused,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
	if d.UsageLimit != nil {
		m.UsageLimit = decimal.NullDecimal{Decimal: *d.UsageLimit, Valid: true}
	}
	return m
}

// ToDomainMeter converts a model Meter to a domain Meter
func ToDomainMeter(m models.Meter) domain.Meter {
	d := domain.Meter{
		MeterID:           m.MeterID,
		UserID:            m.UserID,
		MeterType:         domain.MeterType(m.MeterType),
		MeterNumber:       m.MeterNumber,
		LowThreshold:      m.LowThreshold,
		CriticalThreshold: m.CriticalThreshold,
		AutoPurchase:      m.AutoPurchase,
		IsPaused:          m.IsPaused,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
	if m.UsageLimit.Valid {
		limit := m.UsageLimit.Decimal
		d.UsageLimit = &limit
	}
	return d
}

// ToDomainMeterReading converts a model MeterReading to a domain MeterReading
func ToDomainMeterReading(m models.MeterReading) domain.MeterReading {
	return domain.MeterReading{
		ReadingID:     m.ReadingID,
		UserID:        m.UserID,
		MeterID:       m.MeterID,
		MeterType:     domain.MeterType(m.MeterType),
		Balance:       m.Balance,
		LastDecrement: m.LastDecrement,
		Timestamp:     m.Timestamp,
	}
}

// ToModelMeterReading converts a domain MeterReading to a model MeterReading
func ToModelMeterReading(d domain.MeterReading) models.MeterReading {
	return models.MeterReading{
		ReadingID:     d.ReadingID,
		UserID:        d.UserID,
		MeterID:       d.MeterID,
		MeterType:     string(d.MeterType),
		Balance:       d.Balance,
		LastDecrement: d.LastDecrement,
		Timestamp:     d.Timestamp,
	}
}
