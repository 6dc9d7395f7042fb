package adapter

import (
	"context"

	"video-insight/internal/domain/model"
)

// CompletionNotifier delivers a completion notice for a finished job. It is
// driven by the change-feed consumer, never by the orchestrator.
type CompletionNotifier interface {
	NotifyCompleted(ctx context.Context, job *model.AnalysisJob) error
}
