package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/utilityguy/utility-backend/internal/core/domain"
)

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID        string          `json:"userID"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Surname       string          `json:"surname,omitempty"`
	PhoneNumber   string          `json:"phoneNumber,omitempty"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	IsActive      bool            `json:"isActive"`
	IsAdmin       bool            `json:"isAdmin"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// UpdateProfileRequest carries optional profile field updates.
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// AdminUpdateUserRequest carries the fields an admin may edit on any user.
type AdminUpdateUserRequest struct {
	Name        *string `json:"name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	IsAdmin     *bool   `json:"isAdmin,omitempty"`
}

// UpdateEmailRequest changes the login email. CurrentPassword re-authenticates
// the caller before the mutation is attempted.
type UpdateEmailRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewEmail        string `json:"newEmail" binding:"required,email"`
}

// UpdatePasswordRequest changes the login password after re-authentication.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ToUserResponse converts a domain.User to a UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		Surname:       u.Surname,
		PhoneNumber:   u.PhoneNumber,
		WalletBalance: u.WalletBalance,
		IsActive:      u.IsActive,
		IsAdmin:       u.IsAdmin,
		CreatedAt:     u.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users to DTOs.
func ToUserResponses(users []domain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
