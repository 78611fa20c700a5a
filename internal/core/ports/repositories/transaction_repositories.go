package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// TransactionRepository defines read operations over the append-only
// transaction ledger. Writes happen only through LedgerRepository.
type TransactionRepository interface {
	// ListTransactionsByUser returns transactions newest-first, optionally
	// filtered by type, with opaque-token pagination.
	ListTransactionsByUser(ctx context.Context, userID string, txType *domain.TransactionType, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumTransactionAmounts returns the sum of signed amounts for a user.
	// initialBalance + this sum must equal the current wallet balance.
	SumTransactionAmounts(ctx context.Context, userID string) (decimal.Decimal, error)
}
