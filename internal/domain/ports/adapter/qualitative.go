package adapter

import (
	"context"
	"encoding/json"

	"video-insight/internal/domain/model"
)

// QualitativeAnalyzer is the port for the LLM enrichment collaborator.
// The returned payload is opaque to the pipeline; it is stored as-is.
type QualitativeAnalyzer interface {
	Analyze(ctx context.Context, jobID string, technical model.TechnicalSummary) (json.RawMessage, error)
}
