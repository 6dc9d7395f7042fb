// File: internal/usecase/poller.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"video-insight/internal/domain"
	"video-insight/internal/domain/ports/adapter"
	"video-insight/internal/infra/metrics"
)

// pollUntilDone checks the operation at a fixed interval until it reports
// completion or the attempt budget is exhausted. It holds no store locks
// between attempts; the only shared resource it touches is the provider.
func (u *analysisUC) pollUntilDone(ctx context.Context, op adapter.OperationHandle) (*adapter.AnnotationResult, error) {
	timer := time.NewTimer(u.pollInterval)
	defer timer.Stop()

	for attempt := 1; attempt <= u.maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrAnalysisTimeout, ctx.Err())
		case <-timer.C:
		}

		raw, done, err := u.annotator.Poll(ctx, op)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
		}
		if done {
			metrics.ObservePollAttempts(attempt)
			return raw, nil
		}

		u.log.Debug().Str("operation", string(op)).Int("attempt", attempt).Msg("operation still running")
		timer.Reset(u.pollInterval)
	}

	metrics.ObservePollAttempts(u.maxPollAttempts)
	return nil, domain.ErrAnalysisTimeout
}
