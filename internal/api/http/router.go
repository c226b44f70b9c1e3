package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// AccessMode is the authentication level a route demands.
type AccessMode int

const (
	AccessPublic AccessMode = iota
	AccessAuthenticated
	AccessRole
)

// Access describes who may call a route. When is optional; if set, the
// requirement only applies to requests for which it returns true.
type Access struct {
	Mode AccessMode
	Role domain.Role
	When func(c *fiber.Ctx) bool
}

// Public routes need no token.
func Public() Access { return Access{Mode: AccessPublic} }

// Authenticated routes need a valid bearer token.
func Authenticated() Access { return Access{Mode: AccessAuthenticated} }

// RequireRole routes need a valid token carrying role, or admin.
func RequireRole(role domain.Role) Access { return Access{Mode: AccessRole, Role: role} }

// If makes the requirement conditional on pred.
func (a Access) If(pred func(c *fiber.Ctx) bool) Access {
	a.When = pred
	return a
}

// Route is one entry of the dispatch table.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler fiber.Handler
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Posts          *handlers.PostsHandler
	Media          *handlers.MediaHandler
	Pages          *handlers.PageHandler
	AuthMiddleware *auth.AuthMiddleware
}

// Routes returns the full dispatch table.
func Routes(cfg RouteConfig) []Route {
	return []Route{
		{fiber.MethodGet, "/health/live", Public(), cfg.Health.Live},
		{fiber.MethodGet, "/health/ready", Public(), cfg.Health.Ready},

		{fiber.MethodPost, "/auth/login", Public(), cfg.Auth.Login},

		{fiber.MethodGet, "/posts", Authenticated().If(listsNonActive), cfg.Posts.List},
		{fiber.MethodPost, "/posts", Authenticated(), cfg.Posts.Create},
		{fiber.MethodGet, "/posts/:id<int>", Public(), cfg.Posts.Get},
		{fiber.MethodPut, "/posts/:id<int>", Authenticated(), cfg.Posts.Update},
		{fiber.MethodDelete, "/posts/:id<int>", Authenticated(), cfg.Posts.Delete},

		{fiber.MethodGet, "/pixabay/search", Authenticated(), cfg.Media.Search},

		{fiber.MethodGet, "/p/:slug", Public(), cfg.Pages.Show},
	}
}

// RegisterRoutes wires the dispatch table, then a catch-all for unmatched requests.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	for _, route := range Routes(cfg) {
		chain := []fiber.Handler{}
		if guard := accessGuard(route.Access, cfg.AuthMiddleware); guard != nil {
			chain = append(chain, guard)
		}
		chain = append(chain, route.Handler)
		app.Add(route.Method, route.Path, chain...)
	}
	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("Endpoint not found")
	})
}

func accessGuard(access Access, m *auth.AuthMiddleware) fiber.Handler {
	var enforce fiber.Handler
	switch access.Mode {
	case AccessAuthenticated:
		enforce = m.Authenticate
	case AccessRole:
		enforce = m.RequireRole(access.Role)
	default:
		return nil
	}
	if access.When == nil {
		return enforce
	}
	return func(c *fiber.Ctx) error {
		if !access.When(c) {
			return c.Next()
		}
		return enforce(c)
	}
}

func listsNonActive(c *fiber.Ctx) bool {
	return handlers.ListStatus(c) != domain.PostStatusActive
}
