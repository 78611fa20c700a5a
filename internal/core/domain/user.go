package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an account holder. The wallet balance is denominated in ZAR
// with two decimal places and is only ever mutated through the ledger
// transition (top-up, purchase, withdraw) or the meter-setup seed credit.
type User struct {
	UserID        string
	Email         string
	PasswordHash  string
	Name          string
	Surname       string
	PhoneNumber   string
	WalletBalance decimal.Decimal
	IsActive      bool
	IsAdmin       bool
	AuditFields
	DeletedAt *time.Time

	// Refresh token fields. The raw token is never stored.
	RefreshTokenHash       string
	RefreshTokenExpiryTime *time.Time
}
