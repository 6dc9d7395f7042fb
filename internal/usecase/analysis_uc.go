// File: internal/usecase/analysis_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"video-insight/internal/domain"
	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/adapter"
	"video-insight/internal/domain/ports/repository"
	"video-insight/internal/infra/metrics"
)

// Compile-time check
var _ AnalysisUseCase = (*analysisUC)(nil)

type AnalysisUseCase interface {
	// Submit records a new queued job. It is idempotent on job id: re-triggering
	// an existing id returns the stored job unchanged.
	Submit(ctx context.Context, jobID, userID, videoReference string) (*model.AnalysisJob, error)

	// Process drives one job through claim, annotation, enrichment and the
	// terminal write. A lost claim is a silent no-op; every other fault ends
	// with a best-effort failed write so no job stays processing.
	Process(ctx context.Context, jobID string) error

	// Get returns the job if it belongs to userID, domain.ErrNotFound otherwise.
	Get(ctx context.Context, userID, jobID string) (*model.AnalysisJob, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.AnalysisJob, error)
}

type analysisUC struct {
	jobs      repository.AnalysisJobRepository
	txm       repository.TransactionManager
	annotator adapter.VideoAnnotator
	analyzer  adapter.QualitativeAnalyzer
	feed      repository.JobEventFeed

	pollInterval    time.Duration
	maxPollAttempts int

	log *zerolog.Logger
}

func NewAnalysisUseCase(
	jobs repository.AnalysisJobRepository,
	txm repository.TransactionManager,
	annotator adapter.VideoAnnotator,
	analyzer adapter.QualitativeAnalyzer,
	feed repository.JobEventFeed,
	pollInterval time.Duration,
	maxPollAttempts int,
	logger *zerolog.Logger,
) *analysisUC {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if maxPollAttempts <= 0 {
		maxPollAttempts = 60
	}
	return &analysisUC{
		jobs:            jobs,
		txm:             txm,
		annotator:       annotator,
		analyzer:        analyzer,
		feed:            feed,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
		log:             logger,
	}
}

func (u *analysisUC) Submit(ctx context.Context, jobID, userID, videoReference string) (*model.AnalysisJob, error) {
	job, err := model.NewAnalysisJob(jobID, userID, videoReference)
	if err != nil {
		return nil, err
	}

	// The duplicate check and the insert run in one transaction so a retried
	// submission can never race itself into two rows.
	var out *model.AnalysisJob
	txErr := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if existing, err := u.jobs.FindByID(ctx, tx, job.ID); err == nil && existing != nil {
			if existing.UserID != userID {
				return domain.ErrAlreadyExists
			}
			out = existing
			return nil
		}
		out = job
		return u.jobs.Save(ctx, tx, job)
	})
	if txErr != nil {
		return nil, txErr
	}
	if out == job {
		u.publish(ctx, job.ID, job.UserID, model.AnalysisStatusQueued)
	}
	return out, nil
}

func (u *analysisUC) Process(ctx context.Context, jobID string) (err error) {
	job, err := u.jobs.FindByID(ctx, nil, jobID)
	if err != nil {
		return err
	}

	claimed, err := u.jobs.CompareAndSetStatus(ctx, job.ID, model.AnalysisStatusQueued, model.AnalysisStatusProcessing)
	if err != nil {
		return err
	}
	if !claimed {
		// Another execution owns this job; duplicate invocations stop here.
		u.log.Debug().Str("job_id", job.ID).Msg("claim lost, skipping")
		return nil
	}
	u.publish(ctx, job.ID, job.UserID, model.AnalysisStatusProcessing)
	u.log.Info().Str("job_id", job.ID).Str("user_id", job.UserID).Msg("job claimed")
	start := time.Now()

	// Once claimed, the job must reach a terminal state on every exit path,
	// panics included. The failed write runs on a fresh context so caller
	// cancellation cannot orphan the record in processing.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected fault: %v", r)
		}
		elapsed := time.Since(start)
		if err == nil {
			metrics.ObserveAnalysisJob(string(model.AnalysisStatusCompleted), elapsed.Seconds())
			u.log.Info().Str("job_id", job.ID).Dur("duration", elapsed).Msg("job completed")
			return
		}
		fctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if werr := u.jobs.MarkFailed(fctx, job.ID, err.Error()); werr != nil {
			u.log.Error().Err(werr).Str("job_id", job.ID).Msg("failed-state write did not persist")
		} else {
			u.publish(fctx, job.ID, job.UserID, model.AnalysisStatusFailed)
		}
		metrics.ObserveAnalysisJob(string(model.AnalysisStatusFailed), elapsed.Seconds())
		u.log.Error().Err(err).Str("job_id", job.ID).Dur("duration", elapsed).Msg("job failed")
	}()

	// Bound the whole run slightly above the poll ceiling so a stuck provider
	// cannot hold the worker slot forever.
	deadline := u.pollInterval*time.Duration(u.maxPollAttempts) + 30*time.Second
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	op, err := u.annotator.Submit(ctx, job.VideoReference)
	if err != nil {
		metrics.IncProviderSubmit(false)
		return fmt.Errorf("%w: %v", domain.ErrProviderSubmission, err)
	}
	metrics.IncProviderSubmit(true)

	raw, err := u.pollUntilDone(ctx, op)
	if err != nil {
		return err
	}

	technical := NormalizeAnnotation(raw)

	callStart := time.Now()
	qualitative, err := u.analyzer.Analyze(ctx, job.ID, technical)
	latency := int(time.Since(callStart) / time.Millisecond)
	if err != nil {
		metrics.ObserveQualitativeCall("default", latency, false)
		return fmt.Errorf("%w: %v", domain.ErrQualitativeAnalysis, err)
	}
	metrics.ObserveQualitativeCall("default", latency, true)

	results := &model.AnalysisResults{
		Technical:       technical,
		Qualitative:     qualitative,
		Recommendations: Recommendations(technical, qualitative),
		CompletedAt:     time.Now(),
	}
	if err := u.jobs.MarkCompleted(ctx, job.ID, results); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	u.publish(ctx, job.ID, job.UserID, model.AnalysisStatusCompleted)
	return nil
}

func (u *analysisUC) Get(ctx context.Context, userID, jobID string) (*model.AnalysisJob, error) {
	job, err := u.jobs.FindByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		// Jobs are scoped to their owner; leak nothing about other users' ids.
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func (u *analysisUC) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.AnalysisJob, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.jobs.FindAllByUser(ctx, userID, offset, limit)
}

// publish is best-effort: a dropped event never fails the pipeline.
func (u *analysisUC) publish(ctx context.Context, jobID, userID string, status model.AnalysisStatus) {
	if u.feed == nil {
		return
	}
	ev := repository.JobEvent{
		ID:     ulid.Make().String(),
		JobID:  jobID,
		UserID: userID,
		Status: status,
		At:     time.Now(),
	}
	if err := u.feed.Publish(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		u.log.Warn().Err(err).Str("job_id", jobID).Str("status", string(status)).Msg("event publish failed")
	}
}
