package ai

import (
	"context"
	"encoding/json"

	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/adapter"
)

var _ adapter.QualitativeAnalyzer = (*NoopAnalyzer)(nil)

// NoopAnalyzer returns a canned qualitative payload for dev mode.
type NoopAnalyzer struct{}

func NewNoopAnalyzer() *NoopAnalyzer { return &NoopAnalyzer{} }

func (n *NoopAnalyzer) Analyze(ctx context.Context, jobID string, technical model.TechnicalSummary) (json.RawMessage, error) {
	payload, _ := json.Marshal(map[string]any{
		"hook_effectiveness":   "not evaluated",
		"narrative_structure":  "not evaluated",
		"engagement_potential": "medium",
		"strengths":            []string{},
		"weaknesses":           []string{},
		"virality_score":       50,
		"summary":              "dev mode stub analysis",
	})
	return payload, nil
}
