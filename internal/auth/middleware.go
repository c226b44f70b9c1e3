package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// requestHeaders adapts a fiber context to HeaderSource. Values are copied out
// of fiber's request buffer since the guard may log them.
type requestHeaders struct {
	c *fiber.Ctx
}

func (h requestHeaders) Get(key string) string {
	return utils.CopyString(h.c.Get(key))
}

// AuthMiddleware exposes the Guard as fiber handlers.
type AuthMiddleware struct {
	guard *Guard
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(guard *Guard) *AuthMiddleware {
	return &AuthMiddleware{guard: guard}
}

// Authenticate enforces a valid bearer token and stores the principal.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) error {
	if _, err := m.Resolve(c); err != nil {
		return err
	}
	return c.Next()
}

// Resolve returns the request principal, authenticating on first use. Handlers
// call it when the auth requirement depends on loaded data.
func (m *AuthMiddleware) Resolve(c *fiber.Ctx) (*Principal, error) {
	if principal, ok := PrincipalFromContext(c); ok {
		return principal, nil
	}
	principal, err := m.guard.Authenticate(requestHeaders{c: c})
	if err != nil {
		return nil, PublicError(err)
	}
	c.Locals(principalKey, principal)
	return principal, nil
}

// PrincipalFromContext retrieves the authenticated principal.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// PublicError narrows guard failures to the caller-visible responses so
// the failing verification step is never revealed.
func PublicError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingToken):
		return apperrors.NewUnauthorized("Token required")
	case errors.Is(err, ErrInsufficientRole):
		return apperrors.NewForbidden("Insufficient permissions")
	case errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrTokenExpired):
		return apperrors.NewUnauthorized("Invalid or expired token")
	default:
		return apperrors.MapError(err)
	}
}
