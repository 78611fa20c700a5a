package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// User is the database representation of an account holder.
type User struct {
	UserID        string          `db:"user_id"`
	Email         string          `db:"email"`
	PasswordHash  string          `db:"password_hash"`
	Name          string          `db:"name"`
	Surname       string          `db:"surname"`
	PhoneNumber   string          `db:"phone_number"`
	WalletBalance decimal.Decimal `db:"wallet_balance"`
	IsActive      bool            `db:"is_active"`
	IsAdmin       bool            `db:"is_admin"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
