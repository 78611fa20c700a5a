package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger record.
type TransactionType string

const (
	TransactionCredit     TransactionType = "credit"
	TransactionPurchase   TransactionType = "purchase"
	TransactionServiceFee TransactionType = "service_fee"
	TransactionWithdraw   TransactionType = "withdraw"
)

// TransactionStatus is the terminal state of a transaction record.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
)

// Transaction is an immutable, append-only ledger record. Amount is signed:
// credits positive, debits negative. For every user the invariant
// initialBalance + sum(Amount) == walletBalance holds after any sequence of
// operations. Display ordering is by CreatedAt descending.
type Transaction struct {
	TransactionID string
	UserID        string
	Type          TransactionType
	Amount        decimal.Decimal
	GrossAmount   decimal.Decimal
	NetAmount     decimal.Decimal
	ServiceFee    decimal.Decimal
	Units         decimal.Decimal
	BalanceAfter  decimal.Decimal
	Description   string
	Status        TransactionStatus
	CreatedAt     time.Time
}

// BalanceTransition describes one atomic multi-record ledger operation: a
// signed wallet delta, an optional meter increment, and the transaction
// records to append. Everything applies together or not at all, stamped with
// the same Timestamp.
type BalanceTransition struct {
	UserID       string
	WalletDelta  decimal.Decimal
	MeterType    MeterType // empty when no meter is touched
	UnitsDelta   decimal.Decimal
	Transactions []Transaction
	Timestamp    time.Time
}

// TransitionResult reports the balances observed immediately after a committed
// transition.
type TransitionResult struct {
	WalletBalance decimal.Decimal
	MeterBalance  *decimal.Decimal
	Transactions  []Transaction
}
