package services

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/middleware"
	"github.com/utilityguy/utility-backend/internal/utils/ledger"
)

// SimulationService drains meter readings on a fixed interval to stand in for
// real consumption telemetry. Each tick every unpaused meter loses a random
// 0.1 to 0.5 units, clamped at zero by the repository. When a meter with
// auto-purchase enabled falls to or below its critical threshold, a purchase
// for the configured amount is attempted once; failures are logged and the
// next tick tries again naturally.
type SimulationService struct {
	meterRepo          portsrepo.MeterRepository
	ledgerSvc          portssvc.LedgerSvcFacade
	interval           time.Duration
	autoPurchaseAmount decimal.Decimal
	logger             *slog.Logger
}

// NewSimulationService creates a new SimulationService.
func NewSimulationService(meterRepo portsrepo.MeterRepository, ledgerSvc portssvc.LedgerSvcFacade, interval time.Duration, autoPurchaseAmount decimal.Decimal, logger *slog.Logger) *SimulationService {
	return &SimulationService{
		meterRepo:          meterRepo,
		ledgerSvc:          ledgerSvc,
		interval:           interval,
		autoPurchaseAmount: autoPurchaseAmount,
		logger:             logger.With(slog.String("component", "simulation")),
	}
}

// Run ticks until ctx is cancelled. Call it in its own goroutine.
func (s *SimulationService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Meter decay simulation started", slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Meter decay simulation stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one decay pass over all meters. Exported so a single pass can be
// driven directly in tests.
func (s *SimulationService) Tick(ctx context.Context) {
	ctx = middleware.WithLogger(ctx, s.logger)

	statuses, err := s.meterRepo.ListMeterStatuses(ctx)
	if err != nil {
		s.logger.Error("Failed to list meters for decay", slog.String("error", err.Error()))
		return
	}

	now := time.Now().UTC()
	for _, st := range statuses {
		if st.Meter.IsPaused {
			continue
		}

		dec := randomDecrement()
		newBalance, err := s.meterRepo.ApplyDecrement(ctx, st.Reading.ReadingID, dec, now)
		if err != nil {
			s.logger.Error("Failed to apply decay",
				slog.String("reading_id", st.Reading.ReadingID),
				slog.String("error", err.Error()),
			)
			continue
		}

		if st.Meter.AutoPurchase && newBalance.LessThanOrEqual(st.Meter.CriticalThreshold) {
			s.autoPurchase(ctx, st, newBalance)
		}
	}
}

func (s *SimulationService) autoPurchase(ctx context.Context, st domain.MeterStatus, balance decimal.Decimal) {
	result, err := s.ledgerSvc.Purchase(ctx, st.Meter.UserID, st.Meter.MeterType, s.autoPurchaseAmount)
	if err != nil {
		// An empty wallet is expected here; anything else is worth a louder log.
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			s.logger.Info("Auto-purchase skipped, insufficient balance",
				slog.String("user_id", st.Meter.UserID),
				slog.String("meter_type", string(st.Meter.MeterType)),
			)
		} else {
			s.logger.Error("Auto-purchase failed",
				slog.String("user_id", st.Meter.UserID),
				slog.String("meter_type", string(st.Meter.MeterType)),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	s.logger.Info("Auto-purchase completed",
		slog.String("user_id", st.Meter.UserID),
		slog.String("meter_type", string(st.Meter.MeterType)),
		slog.String("balance_before", balance.String()),
		slog.String("wallet_balance", result.WalletBalance.String()),
	)
}

// randomDecrement returns a decay amount in [0.1, 0.5) units at 3dp.
func randomDecrement() decimal.Decimal {
	v := rand.Float64()*0.4 + 0.1
	return decimal.NewFromFloat(v).Round(ledger.UnitPlaces)
}
