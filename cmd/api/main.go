package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-service/internal/api/http"
	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	codec, err := auth.NewTokenCodec(cfg.Auth.JWTSecret, auth.WithValidity(cfg.Auth.TokenValidity()))
	if err != nil {
		logger.Fatal("failed to init token codec", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(auth.NewGuard(codec, logger))

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	postRepo := repository.NewPostRepository(pool)

	bus := events.NewInMemoryBus(logger)
	worker.StartAuditWorker(service.NewAuditService(bus, logger))

	authService := service.NewAuthService(userRepo, codec, cfg.Auth.BcryptCost, logger)
	postService := service.NewPostService(postRepo, bus, logger)
	mediaService := service.NewMediaService(cfg.Pixabay, &http.Client{Timeout: cfg.Pixabay.Timeout()}, redis.Client, logger)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(httptransport.ServerConfig{
		AppName:     cfg.App.Name,
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSAllowOrigins,
		Logger:      logger,
		Metrics:     metrics,
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
				"postgres": pg,
				"redis":    redis,
			}),
			Auth:           handlers.NewAuthHandler(authService),
			Posts:          handlers.NewPostsHandler(postService, authMiddleware),
			Media:          handlers.NewMediaHandler(mediaService),
			Pages:          handlers.NewPageHandler(postService),
			AuthMiddleware: authMiddleware,
		},
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	requests, errs := metrics.Snapshot()
	logger.Info("served", zap.Int("request_keys", len(requests)), zap.Int("error_keys", len(errs)))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
