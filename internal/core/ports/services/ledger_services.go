package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/core/domain"
	"github.com/utilityguy/utility-backend/internal/dto"
)

// LedgerSvcFacade defines the wallet and purchase operations. Every method
// that moves money applies its writes as one atomic transition.
type LedgerSvcFacade interface {
	// GetWalletBalance returns the user's current wallet balance.
	GetWalletBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// TopUp credits the wallet with the net of amount after the service fee.
	TopUp(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TransitionResult, error)

	// Withdraw debits the wallet by the full gross amount; the net leaves the
	// platform and the fee is retained. No meter is touched.
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*domain.TransitionResult, error)

	// Purchase debits the wallet by the gross amount and credits the target
	// meter with the units bought by the net amount.
	Purchase(ctx context.Context, userID string, meterType domain.MeterType, amount decimal.Decimal) (*domain.TransitionResult, error)

	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// CheckConsistency verifies initialBalance + sum(amounts) == walletBalance
	// for one user and reports both sides.
	CheckConsistency(ctx context.Context, userID string) (*dto.LedgerCheckResponse, error)
}
