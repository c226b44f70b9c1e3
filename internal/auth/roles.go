package auth

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/domain"
)

// Authorize checks an already authenticated principal against a role requirement.
// Comparison is exact and case-sensitive; admin satisfies every role.
func Authorize(principal *Principal, role domain.Role) error {
	if principal == nil {
		return ErrMissingToken
	}
	if principal.Role == role || principal.Role == domain.RoleAdmin {
		return nil
	}
	return ErrInsufficientRole
}

// Owns reports whether the principal is the owner of a resource or an admin.
func Owns(principal *Principal, ownerID int64) bool {
	if principal == nil {
		return false
	}
	if principal.IsAdmin() {
		return true
	}
	id, err := strconv.ParseInt(principal.Subject, 10, 64)
	return err == nil && id == ownerID
}

// RequireRole ensures the caller is authenticated and holds the role, or admin.
func (m *AuthMiddleware) RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.Resolve(c)
		if err != nil {
			return err
		}
		if err := Authorize(principal, role); err != nil {
			return PublicError(err)
		}
		return c.Next()
	}
}
