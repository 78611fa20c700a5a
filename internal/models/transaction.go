package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of an append-only ledger record.
// Rows are never updated or deleted after insert.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	GrossAmount   decimal.Decimal `db:"gross_amount"`
	NetAmount     decimal.Decimal `db:"net_amount"`
	ServiceFee    decimal.Decimal `db:"service_fee"`
	Units         decimal.Decimal `db:"units"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Description   string          `db:"description"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}
