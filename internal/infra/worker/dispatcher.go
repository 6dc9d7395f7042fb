// File: internal/infra/worker/dispatcher.go
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"video-insight/internal/domain/ports/repository"
	"video-insight/internal/usecase"
)

// Dispatcher hands jobs to the pool and sweeps for queued jobs nobody is
// working on (a dispatch lost to a crash or a saturated pool). The claim CAS
// makes double-dispatch harmless.
type Dispatcher struct {
	pool *Pool
	uc   usecase.AnalysisUseCase
	jobs repository.AnalysisJobRepository

	scanInterval time.Duration
	requeueAfter time.Duration
	log          *zerolog.Logger
}

func NewDispatcher(
	pool *Pool,
	uc usecase.AnalysisUseCase,
	jobs repository.AnalysisJobRepository,
	scanInterval, requeueAfter time.Duration,
	logger *zerolog.Logger,
) *Dispatcher {
	compLog := logger.With().Str("component", "Dispatcher").Logger()
	return &Dispatcher{
		pool:         pool,
		uc:           uc,
		jobs:         jobs,
		scanInterval: scanInterval,
		requeueAfter: requeueAfter,
		log:          &compLog,
	}
}

// Dispatch schedules one job for processing.
func (d *Dispatcher) Dispatch(jobID string) error {
	return d.pool.Submit(func(ctx context.Context) error {
		return d.uc.Process(ctx, jobID)
	})
}

// Run periodically re-dispatches stale queued jobs until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info().Msg("starting requeue scanner")
	ticker := time.NewTicker(d.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("stopping requeue scanner")
			return ctx.Err()
		case <-ticker.C:
			d.scan(ctx)
		}
	}
}

func (d *Dispatcher) scan(ctx context.Context) {
	ids, err := d.jobs.FindStaleQueued(ctx, d.requeueAfter, 20)
	if err != nil {
		d.log.Error().Err(err).Msg("stale-queued scan failed")
		return
	}
	for _, id := range ids {
		if err := d.Dispatch(id); err != nil {
			d.log.Warn().Err(err).Str("job_id", id).Msg("re-dispatch refused")
			return // pool saturated, try again next tick
		}
		d.log.Info().Str("job_id", id).Msg("stale queued job re-dispatched")
	}
}
