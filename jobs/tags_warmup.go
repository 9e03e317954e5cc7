package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/itawiki/resource-manager/internal/jobs"
)

// TagWarmer invalidates and rebuilds tag frequency caches.
type TagWarmer interface {
	Invalidate(ctx context.Context) error
	Warm(ctx context.Context) error
}

// TagsWarmupJob drops stale tag aggregates and repopulates the cache.
type TagsWarmupJob struct {
	tags    TagWarmer
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewTagsWarmupJob constructs the warmup handler.
func NewTagsWarmupJob(tags TagWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *TagsWarmupJob {
	return &TagsWarmupJob{tags: tags, logger: logger, metrics: metrics}
}

// Handle processes a single tags:warmup task.
func (j *TagsWarmupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := j.metrics.Track(TaskTagsWarmup)
	if err := j.tags.Invalidate(ctx); err != nil {
		if j.logger != nil {
			j.logger.Error("invalidate tag cache", slog.Any("error", err))
		}
		return tracker.End(err)
	}
	if err := j.tags.Warm(ctx); err != nil {
		if j.logger != nil {
			j.logger.Error("warm tag cache", slog.Any("error", err))
		}
		return tracker.End(err)
	}
	if j.logger != nil {
		j.logger.Info("warmed tag cache", slog.String("job", TaskTagsWarmup))
	}
	return tracker.End(nil)
}
