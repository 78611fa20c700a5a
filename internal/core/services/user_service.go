package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/apperrors"
	"github.com/utilityguy/utility-backend/internal/core/domain"
	portsrepo "github.com/utilityguy/utility-backend/internal/core/ports/repositories"
	portssvc "github.com/utilityguy/utility-backend/internal/core/ports/services"
	"github.com/utilityguy/utility-backend/internal/dto"
	"github.com/utilityguy/utility-backend/internal/middleware"
	"github.com/utilityguy/utility-backend/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a new account with a hashed password and a zero wallet.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check for existing user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:        uuid.NewString(),
		Email:         req.Email,
		PasswordHash:  passwordHash,
		Name:          req.Name,
		Surname:       req.Surname,
		PhoneNumber:   req.PhoneNumber,
		WalletBalance: decimal.Zero,
		IsActive:      true,
		IsAdmin:       false,
	}
	user.CreatedAt = now
	user.CreatedBy = user.UserID
	user.LastUpdatedAt = now
	user.LastUpdatedBy = user.UserID

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// AuthenticateUser verifies the credentials and the account's active flag.
// Both failure modes return ErrUnauthorized so callers cannot distinguish a
// wrong password from an unknown email.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		logger.Error("Failed to look up user for authentication", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", apperrors.ErrForbidden)
	}

	return user, nil
}

// GetUserByID retrieves a single user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// UpdateProfile applies the provided profile fields, leaving the rest alone.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to update profile", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	logger.Info("Profile updated", slog.String("user_id", userID))
	return user, nil
}

// Reauthenticate checks the caller's current password. It exists as its own
// step so credential mutations always run: re-auth first, then mutate.
func (s *userService) Reauthenticate(ctx context.Context, userID, password string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrReauthRequired)
	}
	return nil
}

// UpdateEmail re-authenticates, then changes the login email.
func (s *userService) UpdateEmail(ctx context.Context, userID string, req dto.UpdateEmailRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.Reauthenticate(ctx, userID, req.CurrentPassword); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindUserByEmail(ctx, req.NewEmail)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check new email: %w", err)
	}
	if existing != nil && existing.UserID != userID {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateUserCredentials(ctx, userID, &req.NewEmail, nil, now); err != nil {
		logger.Error("Failed to update email", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update email: %w", err)
	}

	logger.Info("Email updated", slog.String("user_id", userID))
	return s.userRepo.FindUserByID(ctx, userID)
}

// UpdatePassword re-authenticates, then replaces the password hash.
func (s *userService) UpdatePassword(ctx context.Context, userID string, req dto.UpdatePasswordRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.Reauthenticate(ctx, userID, req.CurrentPassword); err != nil {
		return err
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateUserCredentials(ctx, userID, nil, &newHash, now); err != nil {
		logger.Error("Failed to update password", slog.String("error", err.Error()))
		return fmt.Errorf("failed to update password: %w", err)
	}

	logger.Info("Password updated", slog.String("user_id", userID))
	return nil
}

// ListUsers returns a page of users. Admin only.
func (s *userService) ListUsers(ctx context.Context, requestingUserID string, limit, offset int) ([]domain.User, error) {
	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.FindUsers(ctx, limit, offset)
}

// AdminUpdateUser lets an admin edit another user's profile and account flags.
func (s *userService) AdminUpdateUser(ctx context.Context, requestingUserID, targetUserID string, req dto.AdminUpdateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireAdmin(ctx, requestingUserID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to update user", slog.String("target_user_id", targetUserID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	logger.Info("User updated by admin",
		slog.String("admin_user_id", requestingUserID),
		slog.String("target_user_id", targetUserID),
	)
	return user, nil
}

// StoreRefreshTokenHash persists the hashed refresh token for a user.
func (s *userService) StoreRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, &tokenHash, &expiryTime)
}

// ClearRefreshToken invalidates the stored refresh token on logout.
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil)
}

func (s *userService) requireAdmin(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin {
		return fmt.Errorf("%w: admin access required", apperrors.ErrForbidden)
	}
	return nil
}
