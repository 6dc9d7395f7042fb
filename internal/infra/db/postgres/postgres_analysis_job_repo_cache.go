package postgres

import (
	"context"
	"time"

	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/repository"
	"video-insight/internal/infra/metrics"
	red "video-insight/internal/infra/redis"
)

var _ repository.AnalysisJobRepository = (*jobRepoCacheDecorator)(nil)

// jobRepoCacheDecorator serves terminal jobs from Redis. Only completed and
// failed jobs are cached: they never change again, so staleness is a
// non-issue, while in-flight status reads must always hit the store.
type jobRepoCacheDecorator struct {
	inner repository.AnalysisJobRepository
	cache *red.JobCache
}

func NewJobRepoCacheDecorator(inner repository.AnalysisJobRepository, cache *red.JobCache) repository.AnalysisJobRepository {
	return &jobRepoCacheDecorator{inner: inner, cache: cache}
}

func (d *jobRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.AnalysisJob, error) {
	if job, ok := d.cache.Get(ctx, id); ok {
		metrics.IncCacheRequest("job", "hit")
		return job, nil
	}
	metrics.IncCacheRequest("job", "miss")

	job, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	_ = d.cache.Set(ctx, job)
	return job, nil
}

func (d *jobRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, job *model.AnalysisJob) error {
	_ = d.cache.Invalidate(ctx, job.ID)
	return d.inner.Save(ctx, tx, job)
}

func (d *jobRepoCacheDecorator) CompareAndSetStatus(ctx context.Context, id string, expected, next model.AnalysisStatus) (bool, error) {
	_ = d.cache.Invalidate(ctx, id)
	return d.inner.CompareAndSetStatus(ctx, id, expected, next)
}

func (d *jobRepoCacheDecorator) MarkCompleted(ctx context.Context, id string, results *model.AnalysisResults) error {
	_ = d.cache.Invalidate(ctx, id)
	return d.inner.MarkCompleted(ctx, id, results)
}

func (d *jobRepoCacheDecorator) MarkFailed(ctx context.Context, id string, message string) error {
	_ = d.cache.Invalidate(ctx, id)
	return d.inner.MarkFailed(ctx, id, message)
}

// List and sweep queries bypass the cache entirely.
func (d *jobRepoCacheDecorator) FindAllByUser(ctx context.Context, userID string, offset, limit int) ([]*model.AnalysisJob, error) {
	return d.inner.FindAllByUser(ctx, userID, offset, limit)
}

func (d *jobRepoCacheDecorator) FindStaleQueued(ctx context.Context, olderThan time.Duration, limit int) ([]string, error) {
	return d.inner.FindStaleQueued(ctx, olderThan, limit)
}
