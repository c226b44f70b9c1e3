package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// AuthHandler exposes credential login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler builds the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges an email and password for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	decodeBody(c, &req)
	if req.Email == nil || req.Password == nil || *req.Email == "" || *req.Password == "" {
		return apperrors.NewBadRequest("Email and password required")
	}

	result, err := h.auth.Login(c.UserContext(), *req.Email, *req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("Invalid credentials")
		}
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: dto.UserSummary{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  result.User.Role,
		},
	})
}
