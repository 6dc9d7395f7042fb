package repository

import (
	"context"
	"time"

	"video-insight/internal/domain/model"
)

// JobEvent is one observable status transition of an analysis job.
type JobEvent struct {
	ID     string               `json:"id"`
	JobID  string               `json:"job_id"`
	UserID string               `json:"user_id"`
	Status model.AnalysisStatus `json:"status"`
	At     time.Time            `json:"at"`
}

// JobEventFeed is the change feed external collaborators (notification,
// dashboards) consume. The orchestrator only publishes; it never calls a
// notifier directly.
type JobEventFeed interface {
	Publish(ctx context.Context, ev JobEvent) error
	// Subscribe delivers events until ctx is cancelled; the channel is closed
	// on cancellation.
	Subscribe(ctx context.Context) (<-chan JobEvent, error)
}
