package repositories

import (
	"context"
	"time"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// UpdateUser persists profile and admin-editable fields. It never touches
	// wallet_balance; only the ledger transition does that.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateUserCredentials updates email and/or password hash. Callers must
	// have completed a re-authentication check first.
	UpdateUserCredentials(ctx context.Context, userID string, email *string, passwordHash *string, updatedAt time.Time) error

	// UpdateRefreshToken stores (or clears, with nils) the hashed refresh
	// token and its expiry.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiryTime *time.Time) error
}
