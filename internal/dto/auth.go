package dto

import "time"

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
	Surname     string `json:"surname"`
	PhoneNumber string `json:"phoneNumber"`
}

// LoginRequest is the payload for credential sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the access token issued after sign-in. The refresh
// token travels in an HTTP-only cookie.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// RefreshResponse carries a re-issued access token.
type RefreshResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ReauthRequest is the payload for the fresh-credential check required before
// email or password changes.
type ReauthRequest struct {
	Password string `json:"password" binding:"required"`
}
