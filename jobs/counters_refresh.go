package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/itawiki/resource-manager/internal/jobs"
	"github.com/itawiki/resource-manager/internal/platform/db"
)

// CounterStore recomputes denormalised counters and reports how many
// resources were touched.
type CounterStore interface {
	RefreshCounters(ctx context.Context, resourceID int64) (int64, error)
}

// PGCounterStore recounts bookmarks and likes straight from their tables.
type PGCounterStore struct {
	pool *pgxpool.Pool
}

// NewPGCounterStore wires the store with a pgx pool.
func NewPGCounterStore(pool *pgxpool.Pool) *PGCounterStore {
	return &PGCounterStore{pool: pool}
}

var _ CounterStore = (*PGCounterStore)(nil)

// RefreshCounters rewrites bookmark_count and like_count from the source
// tables. A zero resourceID refreshes every resource.
func (s *PGCounterStore) RefreshCounters(ctx context.Context, resourceID int64) (int64, error) {
	var touched int64
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE resources
			SET bookmark_count = (
			        SELECT COUNT(*) FROM bookmarks b WHERE b.resource_id = resources.id
			    ),
			    like_count = (
			        SELECT COUNT(*) FROM likes l WHERE l.resource_id = resources.id
			    ),
			    updated_at = now()`
		args := []any{}
		if resourceID != 0 {
			query += ` WHERE id = $1`
			args = append(args, resourceID)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		touched = tag.RowsAffected()
		return nil
	})
	return touched, err
}

// CountersRefreshJob drains counters:refresh tasks.
type CountersRefreshJob struct {
	store   CounterStore
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewCountersRefreshJob constructs the job handler.
func NewCountersRefreshJob(store CounterStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *CountersRefreshJob {
	return &CountersRefreshJob{store: store, logger: logger, metrics: metrics}
}

// Handle processes a single counters:refresh task.
func (j *CountersRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload CountersRefreshPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	tracker := j.metrics.Track(TaskCountersRefresh)
	touched, err := j.store.RefreshCounters(ctx, payload.ResourceID)
	err = tracker.End(err)
	if err != nil {
		if j.logger != nil {
			j.logger.Error("refresh counters", slog.Any("error", err))
		}
		return err
	}
	if j.logger != nil {
		j.logger.Info("refreshed counters",
			slog.String("job", TaskCountersRefresh),
			slog.Int64("resource_id", payload.ResourceID),
			slog.Int64("touched", touched))
	}
	return nil
}
