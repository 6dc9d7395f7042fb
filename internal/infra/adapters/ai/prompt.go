package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"video-insight/internal/domain/model"
)

const transcriptPreviewLimit = 500

// buildPrompt renders the qualitative-analysis instruction from the
// normalized technical data. The response contract is a single JSON object.
func buildPrompt(technical model.TechnicalSummary) string {
	labels := make([]string, 0, len(technical.Labels))
	for _, l := range technical.Labels {
		labels = append(labels, l.Description)
	}

	transcript := technical.Transcript
	if len(transcript) > transcriptPreviewLimit {
		transcript = transcript[:transcriptPreviewLimit] + "..."
	}

	return fmt.Sprintf(`Analyze this video based on its technical data:

Duration: %.1f seconds
Shot count: %d
Detected labels: %s
Transcript: %s

Provide a qualitative analysis covering:
1. Effectiveness of the opening hook
2. Pacing and narrative structure
3. Engagement potential
4. Strengths and weaknesses
5. Virality score (0-100)

Respond with JSON only:
{
    "hook_effectiveness": "analysis of the hook",
    "narrative_structure": "analysis of the structure",
    "engagement_potential": "high/medium/low",
    "strengths": ["point 1", "point 2"],
    "weaknesses": ["point 1", "point 2"],
    "virality_score": 75,
    "summary": "executive summary"
}`,
		technical.DurationSeconds, technical.ShotCount, strings.Join(labels, ", "), transcript)
}

// extractJSON pulls the JSON object out of an LLM reply, tolerating markdown
// fences. A reply that still fails to parse is preserved verbatim so a human
// can inspect it.
func extractJSON(reply string) json.RawMessage {
	trimmed := strings.TrimSpace(reply)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	fallback, _ := json.Marshal(map[string]string{
		"error": "could not parse model response",
		"raw":   reply,
	})
	return fallback
}
