package services

import (
	"context"
	"time"

	"github.com/utilityguy/utility-backend/internal/core/domain"
	"github.com/utilityguy/utility-backend/internal/dto"
)

// UserSvcFacade defines the user-facing account operations.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// AuthenticateUser verifies email/password credentials and returns the
	// user when they match and the account is active.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)

	// Reauthenticate performs the fresh credential check that must precede
	// email or password changes. Returns ErrReauthRequired on mismatch.
	Reauthenticate(ctx context.Context, userID, password string) error

	// UpdateEmail and UpdatePassword re-authenticate with the current
	// password first, then mutate. Two sequential steps, never one.
	UpdateEmail(ctx context.Context, userID string, req dto.UpdateEmailRequest) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) error

	// Admin surface. Both verify the requesting user is an admin.
	ListUsers(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.User, error)
	AdminUpdateUser(ctx context.Context, requestingUserID, targetUserID string, req dto.AdminUpdateUserRequest) (*domain.User, error)

	StoreRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiryTime time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}
