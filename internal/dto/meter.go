package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// MeterSetupRequest registers both utility meters for a new account.
type MeterSetupRequest struct {
	ElectricityMeterNumber string `json:"electricityMeterNumber" binding:"required"`
	WaterMeterNumber       string `json:"waterMeterNumber" binding:"required"`
}

// MeterResponse defines the data returned for a meter configuration.
type MeterResponse struct {
	MeterID           string           `json:"meterID"`
	MeterType         string           `json:"meterType"`
	MeterNumber       string           `json:"meterNumber"`
	LowThreshold      decimal.Decimal  `json:"lowThreshold"`
	CriticalThreshold decimal.Decimal  `json:"criticalThreshold"`
	AutoPurchase      bool             `json:"autoPurchase"`
	UsageLimit        *decimal.Decimal `json:"usageLimit,omitempty"`
	IsPaused          bool             `json:"isPaused"`
}

// MeterReadingResponse defines the data returned for a live meter reading.
type MeterReadingResponse struct {
	ReadingID     string          `json:"readingID"`
	MeterType     string          `json:"meterType"`
	Balance       decimal.Decimal `json:"balance"`
	LastDecrement decimal.Decimal `json:"lastDecrement"`
	Timestamp     time.Time       `json:"timestamp"`
}

// UpdateMeterConfigRequest carries meter configuration updates. Threshold
// pairs must satisfy criticalThreshold < lowThreshold.
type UpdateMeterConfigRequest struct {
	LowThreshold      *decimal.Decimal `json:"lowThreshold,omitempty"`
	CriticalThreshold *decimal.Decimal `json:"criticalThreshold,omitempty"`
	AutoPurchase      *bool            `json:"autoPurchase,omitempty"`
	UsageLimit        *decimal.Decimal `json:"usageLimit,omitempty"`
	IsPaused          *bool            `json:"isPaused,omitempty"`
}

// PurchaseRequest is the payload for buying meter units from the wallet.
type PurchaseRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// MeterSetupResponse reports what setup created.
type MeterSetupResponse struct {
	Meters        []MeterResponse        `json:"meters"`
	Readings      []MeterReadingResponse `json:"readings"`
	WalletBalance decimal.Decimal        `json:"walletBalance"`
}

// ToMeterResponse converts a domain.Meter to its DTO.
func ToMeterResponse(m *domain.Meter) MeterResponse {
	return MeterResponse{
		MeterID:           m.MeterID,
		MeterType:         string(m.MeterType),
		MeterNumber:       m.MeterNumber,
		LowThreshold:      m.LowThreshold,
		CriticalThreshold: m.CriticalThreshold,
		AutoPurchase:      m.AutoPurchase,
		UsageLimit:        m.UsageLimit,
		IsPaused:          m.IsPaused,
	}
}

// ToMeterReadingResponse converts a domain.MeterReading to its DTO.
func ToMeterReadingResponse(r *domain.MeterReading) MeterReadingResponse {
	return MeterReadingResponse{
		ReadingID:     r.ReadingID,
		MeterType:     string(r.MeterType),
		Balance:       r.Balance,
		LastDecrement: r.LastDecrement,
		Timestamp:     r.Timestamp,
	}
}
