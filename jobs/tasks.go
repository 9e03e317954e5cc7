// Package jobs hosts the Asynq worker, task definitions and their handlers.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCountersRefresh recomputes bookmark and like counters on resources.
	TaskCountersRefresh = "counters:refresh"
	// TaskTagsWarmup rebuilds the cached tag frequency aggregates.
	TaskTagsWarmup = "tags:warmup"
)

// CountersRefreshPayload scopes a counter refresh. A zero ResourceID means
// every resource.
type CountersRefreshPayload struct {
	ResourceID int64 `json:"resource_id"`
}

// NewCountersRefreshTask constructs a counter refresh task.
func NewCountersRefreshTask(payload CountersRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCountersRefresh, data), nil
}

// NewTagsWarmupTask constructs a tag cache warmup task.
func NewTagsWarmupTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskTagsWarmup, nil), nil
}
