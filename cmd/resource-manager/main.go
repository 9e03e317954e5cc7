package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/itawiki/resource-manager/internal/app"
	"github.com/itawiki/resource-manager/internal/bookmarks"
	"github.com/itawiki/resource-manager/internal/featureflag"
	"github.com/itawiki/resource-manager/internal/likes"
	"github.com/itawiki/resource-manager/internal/observability"
	"github.com/itawiki/resource-manager/internal/platform/cache"
	"github.com/itawiki/resource-manager/internal/platform/db"
	"github.com/itawiki/resource-manager/internal/resources"
	"github.com/itawiki/resource-manager/internal/roles"
	"github.com/itawiki/resource-manager/internal/tags"
	"github.com/itawiki/resource-manager/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis connect", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	gate := featureflag.NewConfigGate(func() bool { return cfg.AllowRoleSelfAssignment })

	rolesRepo := roles.NewRepository(pool)
	rolesService := roles.NewService(rolesRepo, gate)
	rolesHandler := roles.NewHandler(logger, rolesService)

	resourcesRepo := resources.NewRepository(pool)
	resourcesService := resources.NewService(resourcesRepo, rolesRepo)
	resourcesHandler := resources.NewHandler(logger, resourcesService)

	bookmarksRepo := bookmarks.NewRepository(pool)
	bookmarksService := bookmarks.NewService(bookmarksRepo, rolesRepo, resourcesRepo)
	bookmarksHandler := bookmarks.NewHandler(logger, bookmarksService)

	likesRepo := likes.NewRepository(pool)
	likesService := likes.NewService(likesRepo, rolesRepo, resourcesRepo)
	likesHandler := likes.NewHandler(logger, likesService)

	tagsRepo := tags.NewRepository(pool)
	tagsCache := tags.NewCache(redisClient, cfg.TagCacheTTL)
	tagsService := tags.NewService(tagsRepo, tagsCache)
	tagsHandler := tags.NewHandler(logger, tagsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		RolesHandler:     rolesHandler,
		ResourcesHandler: resourcesHandler,
		BookmarksHandler: bookmarksHandler,
		LikesHandler:     likesHandler,
		TagsHandler:      tagsHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
