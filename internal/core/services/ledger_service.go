package services

import (
	"context"
	"fmt"
	"log/slog"
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

// LedgerRates bundles the pricing configuration the ledger operations need.
type LedgerRates struct {
	CommissionRate         decimal.Decimal
	ElectricityPricePerKwh decimal.Decimal
	WaterPricePerLiter     decimal.Decimal
}

// PricePerUnit returns the unit price for a meter type.
func (r LedgerRates) PricePerUnit(t domain.MeterType) decimal.Decimal {
	if t == domain.MeterWater {
		return r.WaterPricePerLiter
	}
	return r.ElectricityPricePerKwh
}

// ledgerService implements wallet top-up, withdraw and meter purchases. Each
// operation validates first, then hands a fully-assembled BalanceTransition
// to the repository, which commits it as one unit. There is no visible state
// between those two steps.
//
// The balance precondition is re-checked inside the repository on the locked
// row, so concurrent sessions racing the same wallet resolve there; callers
// must treat ErrInsufficientBalance as possible even right after reading a
// sufficient balance.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepository
	txnRepo    portsrepo.TransactionRepository
	userRepo   portsrepo.UserRepository
	rates      LedgerRates
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepository, txnRepo portsrepo.TransactionRepository, userRepo portsrepo.UserRepository, rates LedgerRates) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		txnRepo:    txnRepo,
		userRepo:   userRepo,
		rates:      rates,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetWalletBalance returns the user's current wallet balance.
func (s *ledgerService) GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return user.WalletBalance, nil
}

// TopUp credits the wallet with the net of amount after the service fee.
func (s *ledgerService) TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TransitionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	q, err := ledger.NewFeeQuote(amount, s.rates.CommissionRate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txns := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			UserID:        userID,
			Type:          domain.TransactionCredit,
			Amount:        q.Net.Add(q.ServiceFee), // gross in, fee deducted by the fee record below
			GrossAmount:   q.Gross,
			NetAmount:     q.Net,
			ServiceFee:    q.ServiceFee,
			Description:   fmt.Sprintf("Wallet top-up - R%s", q.Gross.StringFixed(2)),
			Status:        domain.StatusCompleted,
			CreatedAt:     now,
		},
	}
	txns = appendFeeRecord(txns, userID, q, fmt.Sprintf("Service fee (%s%%) - R%s top-up", feePercent(s.rates.CommissionRate), q.Gross.StringFixed(2)), now)

	result, err := s.ledgerRepo.ApplyTransition(ctx, domain.BalanceTransition{
		UserID:       userID,
		WalletDelta:  q.Net,
		Transactions: txns,
		Timestamp:    now,
	})
	if err != nil {
		logger.Warn("Top-up failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Wallet topped up",
		slog.String("gross", q.Gross.String()),
		slog.String("net", q.Net.String()),
		slog.String("balance", result.WalletBalance.String()),
	)
	return result, nil
}

// Withdraw debits the wallet by the gross amount. Units are zero and no meter
// is touched.
func (s *ledgerService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TransitionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	q, err := ledger.NewFeeQuote(amount, s.rates.CommissionRate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txns := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			UserID:        userID,
			Type:          domain.TransactionWithdraw,
			Amount:        q.Net.Neg(),
			GrossAmount:   q.Gross,
			NetAmount:     q.Net,
			ServiceFee:    q.ServiceFee,
			Description:   fmt.Sprintf("Wallet withdrawal - R%s", q.Gross.StringFixed(2)),
			Status:        domain.StatusCompleted,
			CreatedAt:     now,
		},
	}
	txns = appendFeeRecord(txns, userID, q, fmt.Sprintf("Service fee (%s%%) - R%s withdrawal", feePercent(s.rates.CommissionRate), q.Gross.StringFixed(2)), now)

	result, err := s.ledgerRepo.ApplyTransition(ctx, domain.BalanceTransition{
		UserID:       userID,
		WalletDelta:  q.Gross.Neg(),
		Transactions: txns,
		Timestamp:    now,
	})
	if err != nil {
		logger.Warn("Withdrawal failed", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Wallet withdrawal completed",
		slog.String("gross", q.Gross.String()),
		slog.String("balance", result.WalletBalance.String()),
	)
	return result, nil
}

// Purchase converts amount from the wallet into meter units: the wallet is
// debited by the gross, the meter reading is incremented by the units the net
// buys, and the purchase plus service-fee records are appended. All of it
// commits atomically or not at all.
func (s *ledgerService) Purchase(ctx context.Context, userID string, meterType domain.MeterType, amount decimal.Decimal) (*domain.TransitionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !meterType.Valid() {
		return nil, fmt.Errorf("%w: unknown meter type %q", apperrors.ErrValidation, meterType)
	}

	q, err := ledger.NewQuote(amount, s.rates.CommissionRate, s.rates.PricePerUnit(meterType))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txns := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			UserID:        userID,
			Type:          domain.TransactionPurchase,
			Amount:        q.Net.Neg(),
			GrossAmount:   q.Gross,
			NetAmount:     q.Net,
			ServiceFee:    q.ServiceFee,
			Units:         q.Units,
			Description:   fmt.Sprintf("%s purchase - %s %s", titleFor(meterType), q.Units.StringFixed(3), meterType.Unit()),
			Status:        domain.StatusCompleted,
			CreatedAt:     now,
		},
	}
	txns = appendFeeRecord(txns, userID, q, fmt.Sprintf("Service fee (%s%%) - R%s %s purchase", feePercent(s.rates.CommissionRate), q.Gross.StringFixed(2), meterType), now)

	result, err := s.ledgerRepo.ApplyTransition(ctx, domain.BalanceTransition{
		UserID:       userID,
		WalletDelta:  q.Gross.Neg(),
		MeterType:    meterType,
		UnitsDelta:   q.Units,
		Transactions: txns,
		Timestamp:    now,
	})
	if err != nil {
		logger.Warn("Purchase failed", slog.String("meter_type", string(meterType)), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Purchase completed",
		slog.String("meter_type", string(meterType)),
		slog.String("gross", q.Gross.String()),
		slog.String("units", q.Units.String()),
		slog.String("balance", result.WalletBalance.String()),
	)
	return result, nil
}

// ListTransactions returns the user's transaction history, newest first.
func (s *ledgerService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var txType *domain.TransactionType
	if params.Type != nil && *params.Type != "" && *params.Type != "all" {
		t := domain.TransactionType(*params.Type)
		switch t {
		case domain.TransactionCredit, domain.TransactionPurchase, domain.TransactionServiceFee, domain.TransactionWithdraw:
			txType = &t
		default:
			return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, *params.Type)
		}
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsByUser(ctx, userID, txType, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// CheckConsistency verifies the ledger invariant for one user.
func (s *ledgerService) CheckConsistency(ctx context.Context, userID string) (*dto.LedgerCheckResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sum, err := s.txnRepo.SumTransactionAmounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions for user %s: %w", userID, err)
	}

	return &dto.LedgerCheckResponse{
		UserID:         userID,
		WalletBalance:  user.WalletBalance,
		TransactionSum: sum,
		Consistent:     user.WalletBalance.Equal(sum),
	}, nil
}

// appendFeeRecord adds the service-fee transaction when the fee is non-zero.
// Every paid operation therefore produces exactly two records; zero-fee
// operations produce one.
func appendFeeRecord(txns []domain.Transaction, userID string, q ledger.Quote, description string, now time.Time) []domain.Transaction {
	if q.ServiceFee.IsZero() {
		return txns
	}
	return append(txns, domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Type:          domain.TransactionServiceFee,
		Amount:        q.ServiceFee.Neg(),
		GrossAmount:   q.Gross,
		NetAmount:     q.Net,
		ServiceFee:    q.ServiceFee,
		Description:   description,
		Status:        domain.StatusCompleted,
		CreatedAt:     now,
	})
}

func titleFor(t domain.MeterType) string {
	if t == domain.MeterWater {
		return "Water"
	}
	return "Electricity"
}

func feePercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}
