package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"video-insight/internal/domain"
	"video-insight/internal/domain/model"
	"video-insight/internal/infra/redis"
)

// Expected JSON request body for submitting an analysis.
type analysisCreateRequest struct {
	VideoReference string `json:"video_reference"`
	JobID          string `json:"job_id"` // optional, client-supplied for idempotent retries
}

// Handler for submitting a new video analysis.
func (s *Server) createAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims, ok := claimsFrom(ctx)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		userID := claims.UserID()

		allowed, err := s.limiter.Allow(ctx, redis.UserActionKey(userID, "submit_analysis"), s.rateLimit, s.rateWindow)
		if err != nil {
			s.log.Error().Err(err).Msg("rate limiter check failed")
		} else if !allowed {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		var req analysisCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		job, err := s.analysisUC.Submit(ctx, req.JobID, userID, req.VideoReference)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrAlreadyExists):
				http.Error(w, "Job ID already in use", http.StatusConflict)
			default:
				http.Error(w, "Failed to submit analysis", http.StatusInternalServerError)
			}
			return
		}

		// A failed dispatch is recovered later by the requeue scanner, so the
		// submission is still accepted.
		if err := s.dispatcher.Dispatch(job.ID); err != nil {
			s.log.Warn().Err(err).Str("job_id", job.ID).Msg("dispatch failed, job stays queued")
		}

		response := struct {
			Accepted bool   `json:"accepted"`
			JobID    string `json:"job_id"`
			Status   string `json:"status"`
		}{
			Accepted: true,
			JobID:    job.ID,
			Status:   string(job.Status),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(response)
	}
}

// Handler for fetching one analysis. Reads are owner-scoped.
func (s *Server) getAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims, ok := claimsFrom(ctx)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Analysis ID is required", http.StatusBadRequest)
			return
		}

		job, err := s.analysisUC.Get(ctx, claims.UserID(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to get analysis", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(jobResponse(job))
	}
}

// listAnalysesHandler returns a paginated list of the caller's analyses.
// It accepts 'offset' and 'limit' query parameters.
func (s *Server) listAnalysesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		claims, ok := claimsFrom(ctx)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 100 {
			limit = 50 // Default page size
		}
		if offset < 0 {
			offset = 0
		}

		jobs, err := s.analysisUC.ListByUser(ctx, claims.UserID(), offset, limit)
		if err != nil {
			http.Error(w, "Failed to list analyses", http.StatusInternalServerError)
			return
		}

		data := make([]analysisResponse, 0, len(jobs))
		for _, j := range jobs {
			data = append(data, jobResponse(j))
		}

		response := struct {
			Data   []analysisResponse `json:"data"`
			Limit  int                `json:"limit"`
			Offset int                `json:"offset"`
		}{
			Data:   data,
			Limit:  limit,
			Offset: offset,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}

type analysisResponse struct {
	ID             string                 `json:"id"`
	VideoReference string                 `json:"video_reference"`
	Status         string                 `json:"status"`
	Results        *model.AnalysisResults `json:"results,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      string                 `json:"created_at"`
	UpdatedAt      string                 `json:"updated_at"`
}

// jobResponse shapes a job for the API: results only when completed, error
// only when failed.
func jobResponse(job *model.AnalysisJob) analysisResponse {
	resp := analysisResponse{
		ID:             job.ID,
		VideoReference: job.VideoReference,
		Status:         string(job.Status),
		CreatedAt:      job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      job.UpdatedAt.UTC().Format(time.RFC3339),
	}
	switch job.Status {
	case model.AnalysisStatusCompleted:
		resp.Results = job.Results
	case model.AnalysisStatusFailed:
		resp.Error = job.Error
	}
	return resp
}
