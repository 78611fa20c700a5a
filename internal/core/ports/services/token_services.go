package services

import (
	"context"
	"time"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// TokenSvcFacade issues and validates session tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken returns the raw token and its expiry. Only a hash
	// of the token is persisted, via UserSvcFacade.StoreRefreshTokenHash.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateRefreshToken checks a raw refresh token against the stored
	// hash and expiry for the user and returns the user when valid.
	ValidateRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error)
}
