package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// TopUpRequest is the payload for adding funds to the wallet.
type TopUpRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawRequest is the payload for withdrawing funds from the wallet.
type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// WalletResponse reports the current wallet balance.
type WalletResponse struct {
	WalletBalance decimal.Decimal `json:"walletBalance"`
}

// TransactionResponse defines the data returned for one ledger record.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	GrossAmount   decimal.Decimal `json:"grossAmount"`
	NetAmount     decimal.Decimal `json:"netAmount"`
	ServiceFee    decimal.Decimal `json:"serviceFee"`
	Units         decimal.Decimal `json:"units"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	Timestamp     time.Time       `json:"timestamp"`
}

// TransitionResponse is returned by top-up, withdraw and purchase operations.
type TransitionResponse struct {
	WalletBalance decimal.Decimal       `json:"walletBalance"`
	MeterBalance  *decimal.Decimal      `json:"meterBalance,omitempty"`
	Transactions  []TransactionResponse `json:"transactions"`
}

// ListTransactionsParams holds query parameters for listing transactions.
type ListTransactionsParams struct {
	Type      *string `form:"type"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transaction history plus the token to
// fetch the next page, when more rows exist.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// LedgerCheckResponse reports the ledger consistency invariant for one user:
// walletBalance must equal the sum of signed transaction amounts (the opening
// balance is zero; the meter-setup seed credit is itself a transaction).
type LedgerCheckResponse struct {
	UserID         string          `json:"userID"`
	WalletBalance  decimal.Decimal `json:"walletBalance"`
	TransactionSum decimal.Decimal `json:"transactionSum"`
	Consistent     bool            `json:"consistent"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		GrossAmount:   txn.GrossAmount,
		NetAmount:     txn.NetAmount,
		ServiceFee:    txn.ServiceFee,
		Units:         txn.Units,
		BalanceAfter:  txn.BalanceAfter,
		Description:   txn.Description,
		Status:        string(txn.Status),
		Timestamp:     txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToTransitionResponse converts a domain.TransitionResult to its DTO.
func ToTransitionResponse(r *domain.TransitionResult) TransitionResponse {
	return TransitionResponse{
		WalletBalance: r.WalletBalance,
		MeterBalance:  r.MeterBalance,
		Transactions:  ToTransactionResponses(r.Transactions),
	}
}
