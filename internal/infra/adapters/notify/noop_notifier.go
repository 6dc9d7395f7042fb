package notify

import (
	"context"

	"github.com/rs/zerolog"

	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/adapter"
)

var _ adapter.CompletionNotifier = (*NoopNotifier)(nil)

// NoopNotifier logs completions instead of sending them anywhere.
type NoopNotifier struct {
	log zerolog.Logger
}

func NewNoopNotifier(logger zerolog.Logger) *NoopNotifier {
	return &NoopNotifier{log: logger}
}

func (n *NoopNotifier) NotifyCompleted(ctx context.Context, job *model.AnalysisJob) error {
	n.log.Info().
		Str("job_id", job.ID).
		Str("user_id", job.UserID).
		Msg("analysis completed")
	return nil
}
