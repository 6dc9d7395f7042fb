// File: internal/usecase/recommendations.go
package usecase

import (
	"encoding/json"

	"video-insight/internal/domain/model"
)

// Recommendations derives actionable advice from the technical summary and
// the qualitative payload. A qualitative payload that cannot be parsed simply
// contributes nothing.
func Recommendations(technical model.TechnicalSummary, qualitative json.RawMessage) []string {
	var recs []string

	if technical.DurationSeconds > 180 {
		recs = append(recs, "Consider shortening the video to under 3 minutes for better retention")
	}

	if technical.DurationSeconds > 0 {
		cutsPerMinute := float64(technical.ShotCount) / (technical.DurationSeconds / 60)
		if cutsPerMinute < 10 {
			recs = append(recs, "Increase pacing with more cuts and dynamic transitions")
		}
	}

	var scored struct {
		ViralityScore float64 `json:"virality_score"`
	}
	if len(qualitative) > 0 && json.Unmarshal(qualitative, &scored) == nil && scored.ViralityScore < 70 {
		recs = append(recs, "Strengthen the opening hook to capture attention in the first 3 seconds")
	}

	return recs
}
