package http

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/observability"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// ServerConfig holds everything NewApp needs to assemble the HTTP surface.
type ServerConfig struct {
	AppName     string
	Timeout     time.Duration
	CORSOrigins string
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Routes      RouteConfig
}

// NewApp builds a fiber app with the global middleware chain and the route table.
func NewApp(cfg ServerConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
		Immutable:             true,
	})
	RegisterMiddlewares(app, logger, cfg.Metrics, cfg.Timeout, cfg.CORSOrigins)
	RegisterRoutes(app, cfg.Routes)

	server := app.Server()
	server.Handler = rejectUnknownMethods(server.Handler)
	return app
}

// fiber answers verbs outside this set with a plain-text 400 before any
// middleware runs.
var routableMethods = map[string]bool{
	fiber.MethodGet:     true,
	fiber.MethodHead:    true,
	fiber.MethodPost:    true,
	fiber.MethodPut:     true,
	fiber.MethodPatch:   true,
	fiber.MethodDelete:  true,
	fiber.MethodConnect: true,
	fiber.MethodOptions: true,
	fiber.MethodTrace:   true,
}

// rejectUnknownMethods gives verbs fiber cannot route the same JSON 405 that
// methodGuard produces for routable ones.
func rejectUnknownMethods(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	body, _ := json.Marshal(fiber.Map{"error": apperrors.ToDomainError(apperrors.NewMethodNotAllowed()).Message})
	return func(ctx *fasthttp.RequestCtx) {
		if routableMethods[string(ctx.Method())] {
			next(ctx)
			return
		}
		ctx.SetStatusCode(fiber.StatusMethodNotAllowed)
		ctx.SetContentType(fiber.MIMEApplicationJSON)
		ctx.SetBody(body)
	}
}
