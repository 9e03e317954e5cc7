package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/itawiki/resource-manager/internal/app"
	jobmetrics "github.com/itawiki/resource-manager/internal/jobs"
	"github.com/itawiki/resource-manager/internal/tags"
	"github.com/itawiki/resource-manager/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	tagsRepo := tags.NewRepository(pool)
	tagsCache := tags.NewCache(redisClient, cfg.TagCacheTTL)
	tagsService := tags.NewService(tagsRepo, tagsCache)

	metrics := jobmetrics.NewMetrics(nil)
	countersJob := jobs.NewCountersRefreshJob(jobs.NewPGCounterStore(pool), logger, metrics)
	warmupJob := jobs.NewTagsWarmupJob(tagsService, logger, metrics)

	countersTask, err := jobs.NewCountersRefreshTask(jobs.CountersRefreshPayload{})
	if err != nil {
		logger.Error("build counters task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewTagsWarmupTask()
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCountersRefresh, Handler: countersJob.Handle},
			{Type: jobs.TaskTagsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: countersTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
