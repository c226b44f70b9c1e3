package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserSummary is the public view of an account. It never carries the password hash.
type UserSummary struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}
