package sched

import (
	"context"

	"github.com/rs/zerolog"

	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/adapter"
	"video-insight/internal/domain/ports/repository"
)

// CompletionNotifier consumes the job change feed and delivers a notice for
// every completed job. It is the external trigger the pipeline itself never
// calls; losing it loses notices, never job state.
type CompletionNotifier struct {
	feed     repository.JobEventFeed
	jobs     repository.AnalysisJobRepository
	notifier adapter.CompletionNotifier
	log      *zerolog.Logger
}

func NewCompletionNotifier(
	feed repository.JobEventFeed,
	jobs repository.AnalysisJobRepository,
	notifier adapter.CompletionNotifier,
	logger *zerolog.Logger,
) *CompletionNotifier {
	compLog := logger.With().Str("component", "CompletionNotifier").Logger()
	return &CompletionNotifier{feed: feed, jobs: jobs, notifier: notifier, log: &compLog}
}

func (w *CompletionNotifier) Run(ctx context.Context) error {
	w.log.Info().Msg("starting completion notifier")
	events, err := w.feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping completion notifier")
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Status != model.AnalysisStatusCompleted {
				continue
			}
			w.handle(ctx, ev)
		}
	}
}

func (w *CompletionNotifier) handle(ctx context.Context, ev repository.JobEvent) {
	job, err := w.jobs.FindByID(ctx, nil, ev.JobID)
	if err != nil {
		w.log.Error().Err(err).Str("job_id", ev.JobID).Msg("could not load completed job")
		return
	}
	if err := w.notifier.NotifyCompleted(ctx, job); err != nil {
		w.log.Error().Err(err).Str("job_id", ev.JobID).Msg("completion notice failed")
		return
	}
	w.log.Info().Str("job_id", ev.JobID).Str("user_id", ev.UserID).Msg("completion notice sent")
}
