package redis

import (
	"context"
	"encoding/json"
	"time"

	"video-insight/internal/domain/model"
)

// JobCache keeps terminal jobs in Redis so status polling after completion
// does not hit Postgres. Non-terminal jobs are never cached; their status is
// in flight.
type JobCache struct {
	client *Client
	ttl    time.Duration
}

func NewJobCache(client *Client, ttl time.Duration) *JobCache {
	return &JobCache{client: client, ttl: ttl}
}

func jobKey(id string) string { return "analysis_job:" + id }

func (c *JobCache) Get(ctx context.Context, id string) (*model.AnalysisJob, bool) {
	raw, err := c.client.Get(ctx, jobKey(id))
	if err != nil {
		return nil, false
	}
	var job cachedJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, false
	}
	return job.toModel(), true
}

func (c *JobCache) Set(ctx context.Context, job *model.AnalysisJob) error {
	if !job.Status.Terminal() {
		return nil
	}
	b, err := json.Marshal(fromModel(job))
	if err != nil {
		return err
	}
	return c.client.Set(ctx, jobKey(job.ID), b, c.ttl)
}

func (c *JobCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, jobKey(id))
}

// cachedJob pins the cache wire shape independently of the domain struct.
type cachedJob struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"user_id"`
	VideoReference string                 `json:"video_reference"`
	Status         string                 `json:"status"`
	Results        *model.AnalysisResults `json:"results,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func fromModel(j *model.AnalysisJob) cachedJob {
	return cachedJob{
		ID:             j.ID,
		UserID:         j.UserID,
		VideoReference: j.VideoReference,
		Status:         string(j.Status),
		Results:        j.Results,
		Error:          j.Error,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

func (c cachedJob) toModel() *model.AnalysisJob {
	return &model.AnalysisJob{
		ID:             c.ID,
		UserID:         c.UserID,
		VideoReference: c.VideoReference,
		Status:         model.AnalysisStatus(c.Status),
		Results:        c.Results,
		Error:          c.Error,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
