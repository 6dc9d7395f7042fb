//go:build !integration

package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"video-insight/internal/domain"
	"video-insight/internal/domain/model"
	"video-insight/internal/infra/web"
)

//
// ---------------- fakes ----------------
//

type fakeAnalysisUC struct {
	submitted *model.AnalysisJob
	submitErr error
	getJob    *model.AnalysisJob
	getErr    error
	listJobs  []*model.AnalysisJob
	listErr   error
}

func (f *fakeAnalysisUC) Submit(ctx context.Context, jobID, userID, videoReference string) (*model.AnalysisJob, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.submitted != nil {
		return f.submitted, nil
	}
	job, _ := model.NewAnalysisJob(jobID, userID, videoReference)
	return job, nil
}

func (f *fakeAnalysisUC) Process(ctx context.Context, jobID string) error { return nil }

func (f *fakeAnalysisUC) Get(ctx context.Context, userID, jobID string) (*model.AnalysisJob, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getJob, nil
}

func (f *fakeAnalysisUC) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.AnalysisJob, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listJobs, nil
}

type fakeDispatcher struct {
	dispatched []string
	err        error
}

func (f *fakeDispatcher) Dispatch(jobID string) error {
	f.dispatched = append(f.dispatched, jobID)
	return f.err
}

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return f.allowed, f.err
}

//
// -------------------- helpers --------------------
//

const testSecret = "test-secret"

func newRouter(uc *fakeAnalysisUC, d *fakeDispatcher, l *fakeLimiter) (*chi.Mux, *web.AuthManager) {
	logger := zerolog.Nop()
	auth := web.NewAuthManager(testSecret, time.Hour)
	srv := web.NewServer(uc, d, l, auth, 10, time.Minute, &logger)
	r := chi.NewRouter()
	srv.RegisterRoutes(r)
	return r, auth
}

func authedRequest(t *testing.T, auth *web.AuthManager, method, target string, body []byte) *http.Request {
	t.Helper()
	tok, err := auth.Mint("user-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	return req
}

//
// -------------------- tests --------------------
//

func TestCreateAnalysis(t *testing.T) {
	t.Run("202 accepted and dispatched", func(t *testing.T) {
		uc := &fakeAnalysisUC{}
		d := &fakeDispatcher{}
		r, auth := newRouter(uc, d, &fakeLimiter{allowed: true})

		req := authedRequest(t, auth, http.MethodPost, "/api/v1/analyses", []byte(`{"video_reference":"gs://b/v.mp4"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("want 202, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Accepted bool   `json:"accepted"`
			JobID    string `json:"job_id"`
			Status   string `json:"status"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Accepted || resp.JobID == "" || resp.Status != "queued" {
			t.Fatalf("response mismatch: %+v", resp)
		}
		if len(d.dispatched) != 1 || d.dispatched[0] != resp.JobID {
			t.Fatalf("dispatch mismatch: %v", d.dispatched)
		}
	})

	t.Run("still 202 when dispatch is refused", func(t *testing.T) {
		d := &fakeDispatcher{err: errors.New("queue full")}
		r, auth := newRouter(&fakeAnalysisUC{}, d, &fakeLimiter{allowed: true})

		req := authedRequest(t, auth, http.MethodPost, "/api/v1/analyses", []byte(`{"video_reference":"gs://b/v.mp4"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("want 202, got %d, body=%s", rec.Code, rec.Body.String())
		}
	})

	t.Run("401 without token", func(t *testing.T) {
		r, _ := newRouter(&fakeAnalysisUC{}, &fakeDispatcher{}, &fakeLimiter{allowed: true})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("want 401, got %d", rec.Code)
		}
	})

	t.Run("429 when rate limited", func(t *testing.T) {
		r, auth := newRouter(&fakeAnalysisUC{}, &fakeDispatcher{}, &fakeLimiter{allowed: false})

		req := authedRequest(t, auth, http.MethodPost, "/api/v1/analyses", []byte(`{"video_reference":"gs://b/v.mp4"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("want 429, got %d", rec.Code)
		}
	})

	t.Run("400 on invalid input", func(t *testing.T) {
		uc := &fakeAnalysisUC{submitErr: domain.ErrInvalidArgument}
		r, auth := newRouter(uc, &fakeDispatcher{}, &fakeLimiter{allowed: true})

		req := authedRequest(t, auth, http.MethodPost, "/api/v1/analyses", []byte(`{"video_reference":""}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})

	t.Run("409 when job id belongs to someone else", func(t *testing.T) {
		uc := &fakeAnalysisUC{submitErr: domain.ErrAlreadyExists}
		r, auth := newRouter(uc, &fakeDispatcher{}, &fakeLimiter{allowed: true})

		req := authedRequest(t, auth, http.MethodPost, "/api/v1/analyses", []byte(`{"video_reference":"gs://b/v.mp4","job_id":"taken"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("want 409, got %d", rec.Code)
		}
	})
}

func TestGetAnalysis(t *testing.T) {
	t.Run("completed job exposes results, not error", func(t *testing.T) {
		job, _ := model.NewAnalysisJob("job-1", "user-1", "gs://b/v.mp4")
		job.Status = model.AnalysisStatusCompleted
		job.Results = &model.AnalysisResults{
			Technical:   model.TechnicalSummary{ShotCount: 4, DurationSeconds: 12},
			Qualitative: json.RawMessage(`{"virality_score": 80}`),
			CompletedAt: time.Now(),
		}
		r, auth := newRouter(&fakeAnalysisUC{getJob: job}, &fakeDispatcher{}, &fakeLimiter{allowed: true})

		req := authedRequest(t, auth, http.MethodGet, "/api/v1/analyses/job-1", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Status  string                 `json:"status"`
			Results *model.AnalysisResults `json:"results"`
			Error   string                 `json:"error"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != "completed" || resp.Results == nil || resp.Error != "" {
			t.Fatalf("response mismatch: %+v", resp)
		}
	})

	t.Run("failed job exposes error, not results", func(t *testing.T) {
		job, _ := model.NewAnalysisJob("job-2", "user-1", "gs://b/v.mp4")
		job.Status = model.AnalysisStatusFailed
		job.Error = "analysis timed out"
		r, auth := newRouter(&fakeAnalysisUC{getJob: job}, &fakeDispatcher{}, &fakeLimiter{allowed: true})

		req := authedRequest(t, auth, http.MethodGet, "/api/v1/analyses/job-2", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", rec.Code)
		}
		var resp struct {
			Status  string                 `json:"status"`
			Results *model.AnalysisResults `json:"results"`
			Error   string                 `json:"error"`
		}
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		if resp.Status != "failed" || resp.Results != nil || resp.Error != "analysis timed out" {
			t.Fatalf("response mismatch: %+v", resp)
		}
	})

	t.Run("404 for unknown or foreign job", func(t *testing.T) {
		r, auth := newRouter(&fakeAnalysisUC{getErr: domain.ErrNotFound}, &fakeDispatcher{}, &fakeLimiter{allowed: true})

		req := authedRequest(t, auth, http.MethodGet, "/api/v1/analyses/nope", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("want 404, got %d", rec.Code)
		}
	})
}

func TestListAnalyses(t *testing.T) {
	j1, _ := model.NewAnalysisJob("job-1", "user-1", "gs://b/1.mp4")
	j2, _ := model.NewAnalysisJob("job-2", "user-1", "gs://b/2.mp4")
	r, auth := newRouter(&fakeAnalysisUC{listJobs: []*model.AnalysisJob{j1, j2}}, &fakeDispatcher{}, &fakeLimiter{allowed: true})

	req := authedRequest(t, auth, http.MethodGet, "/api/v1/analyses?offset=0&limit=10", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data   []json.RawMessage `json:"data"`
		Limit  int               `json:"limit"`
		Offset int               `json:"offset"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 || resp.Limit != 10 || resp.Offset != 0 {
		t.Fatalf("response mismatch: %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(&fakeAnalysisUC{}, &fakeDispatcher{}, &fakeLimiter{allowed: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}
