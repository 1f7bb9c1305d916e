package dto

import (
	"time"

	"github.com/mwhayford/rental-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	FullName string          `json:"full_name"`
	Role     domain.UserRole `json:"role"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     domain.UserRole `json:"role"`
}

// AuthResponse carries a signed token.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}
