package repositories

import (
	"context"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// LedgerRepository applies balance transitions. This is the only write path
// for wallet balances, meter-reading increments, and transaction records.
type LedgerRepository interface {
	// ApplyTransition applies the transition as a single all-or-nothing unit:
	// wallet delta, optional meter increment, and transaction inserts either
	// all commit or none do. Precondition failures (missing account or meter,
	// insufficient balance) abort before any write becomes visible.
	ApplyTransition(ctx context.Context, t domain.BalanceTransition) (*domain.TransitionResult, error)
}
