package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
	"github.com/utilityguy/utility-backend/internal/middleware"
	"github.com/utilityguy/utility-backend/internal/utils/ledger"
)

// Default thresholds assigned at setup, per utility.
var (
	electricityLowThreshold      = decimal.NewFromInt(50)
	electricityCriticalThreshold = decimal.NewFromInt(10)
	waterLowThreshold            = decimal.NewFromInt(20)
	waterCriticalThreshold       = decimal.NewFromInt(5)

	openingCredit = decimal.NewFromInt(250)
)

const meterNumberLength = 11

type meterService struct {
	meterRepo  portsrepo.MeterRepository
	ledgerRepo portsrepo.LedgerRepository
}

// NewMeterService creates a new MeterService.
func NewMeterService(meterRepo portsrepo.MeterRepository, ledgerRepo portsrepo.LedgerRepository) portssvc.MeterSvcFacade {
	return &meterService{meterRepo: meterRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.MeterSvcFacade = (*meterService)(nil)

// SetupMeters registers the electricity and water meters for a user, seeds
// each with a random starting reading between 100 and 800 units, and credits
// the opening wallet amount. Setup is a one-time operation per user.
func (s *meterService) SetupMeters(ctx context.Context, userID string, req dto.MeterSetupRequest) (*dto.MeterSetupResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.ElectricityMeterNumber) != meterNumberLength || len(req.WaterMeterNumber) != meterNumberLength {
		return nil, fmt.Errorf("%w: meter numbers must be %d digits long", apperrors.ErrValidation, meterNumberLength)
	}

	existing, err := s.meterRepo.FindMeterByUserAndType(ctx, userID, domain.MeterElectricity)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrMeterNotFound) {
		return nil, fmt.Errorf("failed to check existing meters: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: meters already configured", apperrors.ErrDuplicate)
	}

	now := time.Now().UTC()
	setups := []struct {
		meterType   domain.MeterType
		meterNumber string
		low, crit   decimal.Decimal
	}{
		{domain.MeterElectricity, req.ElectricityMeterNumber, electricityLowThreshold, electricityCriticalThreshold},
		{domain.MeterWater, req.WaterMeterNumber, waterLowThreshold, waterCriticalThreshold},
	}

	resp := &dto.MeterSetupResponse{}
	for _, su := range setups {
		meter := domain.Meter{
			MeterID:           uuid.NewString(),
			UserID:            userID,
			MeterType:         su.meterType,
			MeterNumber:       su.meterNumber,
			LowThreshold:      su.low,
			CriticalThreshold: su.crit,
			AutoPurchase:      false,
			IsPaused:          false,
		}
		meter.CreatedAt = now
		meter.CreatedBy = userID
		meter.LastUpdatedAt = now
		meter.LastUpdatedBy = userID

		reading := domain.MeterReading{
			ReadingID: uuid.NewString(),
			UserID:    userID,
			MeterID:   meter.MeterID,
			MeterType: su.meterType,
			Balance:   randomStartingBalance(),
			Timestamp: now,
		}

		if err := s.meterRepo.SaveMeterWithReading(ctx, meter, reading); err != nil {
			logger.Error("Failed to save meter",
				slog.String("meter_type", string(su.meterType)),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("failed to create %s meter: %w", su.meterType, err)
		}

		resp.Meters = append(resp.Meters, dto.ToMeterResponse(&meter))
		resp.Readings = append(resp.Readings, dto.ToMeterReadingResponse(&reading))
	}

	// Opening credit: a plain ledger credit, no fee. Keeps the consistency
	// invariant intact because the seed is itself a transaction.
	result, err := s.ledgerRepo.ApplyTransition(ctx, domain.BalanceTransition{
		UserID:      userID,
		WalletDelta: openingCredit,
		Transactions: []domain.Transaction{
			{
				TransactionID: uuid.NewString(),
				UserID:        userID,
				Type:          domain.TransactionCredit,
				Amount:        openingCredit,
				GrossAmount:   openingCredit,
				NetAmount:     openingCredit,
				Description:   fmt.Sprintf("Welcome credit - R%s", openingCredit.StringFixed(2)),
				Status:        domain.StatusCompleted,
				CreatedAt:     now,
			},
		},
		Timestamp: now,
	})
	if err != nil {
		logger.Error("Failed to apply opening credit", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to credit opening balance: %w", err)
	}
	resp.WalletBalance = result.WalletBalance

	logger.Info("Meters configured", slog.String("user_id", userID))
	return resp, nil
}

// GetMeter returns the meter configuration for one utility.
func (s *meterService) GetMeter(ctx context.Context, userID string, meterType domain.MeterType) (*domain.Meter, error) {
	if !meterType.Valid() {
		return nil, fmt.Errorf("%w: unknown meter type %q", apperrors.ErrValidation, meterType)
	}
	return s.meterRepo.FindMeterByUserAndType(ctx, userID, meterType)
}

// GetReading returns the live reading for one utility.
func (s *meterService) GetReading(ctx context.Context, userID string, meterType domain.MeterType) (*domain.MeterReading, error) {
	if !meterType.Valid() {
		return nil, fmt.Errorf("%w: unknown meter type %q", apperrors.ErrValidation, meterType)
	}
	return s.meterRepo.FindLiveReading(ctx, userID, meterType)
}

// UpdateMeterConfig applies configuration changes after validating the
// resulting threshold pair.
func (s *meterService) UpdateMeterConfig(ctx context.Context, userID string, meterType domain.MeterType, req dto.UpdateMeterConfigRequest) (*domain.Meter, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !meterType.Valid() {
		return nil, fmt.Errorf("%w: unknown meter type %q", apperrors.ErrValidation, meterType)
	}

	meter, err := s.meterRepo.FindMeterByUserAndType(ctx, userID, meterType)
	if err != nil {
		return nil, err
	}

	if req.LowThreshold != nil {
		meter.LowThreshold = *req.LowThreshold
	}
	if req.CriticalThreshold != nil {
		meter.CriticalThreshold = *req.CriticalThreshold
	}
	if req.AutoPurchase != nil {
		meter.AutoPurchase = *req.AutoPurchase
	}
	if req.UsageLimit != nil {
		meter.UsageLimit = req.UsageLimit
	}
	if req.IsPaused != nil {
		meter.IsPaused = *req.IsPaused
	}

	// Validate the resulting pair, not just the supplied fields, so a partial
	// update cannot leave the meter in an invalid state.
	if meter.LowThreshold.IsNegative() || meter.CriticalThreshold.IsNegative() {
		return nil, fmt.Errorf("%w: thresholds must be non-negative", apperrors.ErrValidation)
	}
	if meter.CriticalThreshold.GreaterThanOrEqual(meter.LowThreshold) {
		return nil, fmt.Errorf("%w: critical threshold must be less than low threshold", apperrors.ErrValidation)
	}
	if meter.UsageLimit != nil && meter.UsageLimit.IsNegative() {
		return nil, fmt.Errorf("%w: usage limit must be non-negative", apperrors.ErrValidation)
	}

	meter.LastUpdatedAt = time.Now().UTC()
	meter.LastUpdatedBy = userID

	if err := s.meterRepo.UpdateMeterConfig(ctx, *meter); err != nil {
		logger.Error("Failed to update meter config",
			slog.String("meter_type", string(meterType)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update meter configuration: %w", err)
	}

	logger.Info("Meter configuration updated",
		slog.String("user_id", userID),
		slog.String("meter_type", string(meterType)),
	)
	return meter, nil
}

// randomStartingBalance returns a seed reading in [100, 800) units at 3dp.
func randomStartingBalance() decimal.Decimal {
	v := 100 + rand.Float64()*700
	return decimal.NewFromFloat(v).Round(ledger.UnitPlaces)
}
