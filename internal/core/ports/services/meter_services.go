package services

import (
	"context"

	"github.com/utilityguy/utility-backend/internal/core/domain"
	"github.com/utilityguy/utility-backend/internal/dto"
)

// MeterSvcFacade defines meter registration, configuration and reading
// operations.
type MeterSvcFacade interface {
	// SetupMeters registers both utility meters for a user, seeds their
	// readings with starting balances and credits the opening wallet amount.
	SetupMeters(ctx context.Context, userID string, req dto.MeterSetupRequest) (*dto.MeterSetupResponse, error)

	GetMeter(ctx context.Context, userID string, meterType domain.MeterType) (*domain.Meter, error)
	GetReading(ctx context.Context, userID string, meterType domain.MeterType) (*domain.MeterReading, error)

	// UpdateMeterConfig validates and applies configuration changes.
	// criticalThreshold must stay below lowThreshold.
	UpdateMeterConfig(ctx context.Context, userID string, meterType domain.MeterType, req dto.UpdateMeterConfigRequest) (*domain.Meter, error)
}
