package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"video-insight/internal/domain"
)

type AnalysisStatus string

const (
	AnalysisStatusQueued     AnalysisStatus = "queued"
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// Terminal reports whether no further transitions may leave the status.
func (s AnalysisStatus) Terminal() bool {
	return s == AnalysisStatusCompleted || s == AnalysisStatusFailed
}

// LabelAnnotation is one detected label with the confidence of its first
// reported segment. Order is the provider's order, never re-sorted.
type LabelAnnotation struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// TechnicalSummary is the normalized, provider-derived annotation data,
// prior to qualitative enrichment.
type TechnicalSummary struct {
	Labels          []LabelAnnotation `json:"labels"`
	ShotCount       int               `json:"shot_count"`
	Transcript      string            `json:"transcript"`
	DurationSeconds float64           `json:"duration_seconds"`
}

// AnalysisResults is attached to a job exactly when it completes.
// Qualitative is the opaque payload returned by the enrichment collaborator.
type AnalysisResults struct {
	Technical       TechnicalSummary `json:"technical"`
	Qualitative     json.RawMessage  `json:"qualitative"`
	Recommendations []string         `json:"recommendations,omitempty"`
	CompletedAt     time.Time        `json:"completed_at"`
}

// AnalysisJob is one request to analyze a single video reference end-to-end.
// Results is set iff Status is completed; Error is set iff Status is failed.
type AnalysisJob struct {
	ID             string
	UserID         string
	VideoReference string
	Status         AnalysisStatus
	Results        *AnalysisResults
	Error          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewAnalysisJob creates a queued job. The id is caller-assigned; when empty
// a ULID is generated so re-triggering with the same id stays idempotent.
func NewAnalysisJob(id, userID, videoReference string) (*AnalysisJob, error) {
	userID = strings.TrimSpace(userID)
	videoReference = strings.TrimSpace(videoReference)
	if userID == "" || videoReference == "" {
		return nil, domain.ErrInvalidArgument
	}
	if id == "" {
		id = ulid.Make().String()
	}
	now := time.Now()
	return &AnalysisJob{
		ID:             id,
		UserID:         userID,
		VideoReference: videoReference,
		Status:         AnalysisStatusQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
