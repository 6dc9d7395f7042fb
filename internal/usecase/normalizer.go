// File: internal/usecase/normalizer.go
package usecase

import (
	"strconv"
	"strings"

	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/adapter"
)

// maxLabels caps the label list at the ten most prominent entries, in the
// order the provider returned them.
const maxLabels = 10

// NormalizeAnnotation converts a raw provider payload into a TechnicalSummary.
// It is pure and total: malformed or partially-present input degrades to
// empty/zero fields instead of an error, because partial technical data is
// still useful to a reviewer.
func NormalizeAnnotation(raw *adapter.AnnotationResult) model.TechnicalSummary {
	summary := model.TechnicalSummary{Labels: []model.LabelAnnotation{}}
	if raw == nil {
		return summary
	}

	for _, label := range raw.SegmentLabelAnnotations {
		if len(summary.Labels) == maxLabels {
			break
		}
		confidence := 0.0
		if len(label.Segments) > 0 {
			confidence = label.Segments[0].Confidence
		}
		summary.Labels = append(summary.Labels, model.LabelAnnotation{
			Description: label.Entity.Description,
			Confidence:  confidence,
		})
	}

	summary.ShotCount = len(raw.ShotAnnotations)

	var parts []string
	for _, transcription := range raw.SpeechTranscriptions {
		for _, alt := range transcription.Alternatives {
			parts = append(parts, alt.Transcript)
		}
	}
	summary.Transcript = strings.TrimSpace(strings.Join(parts, " "))

	if raw.Segment != nil {
		summary.DurationSeconds = parseDurationSeconds(raw.Segment.EndTimeOffset)
	}
	return summary
}

// parseDurationSeconds parses offsets like "123.450s" into seconds.
// Anything unparsable, and negative values, collapse to zero.
func parseDurationSeconds(offset string) float64 {
	trimmed := strings.TrimSuffix(strings.TrimSpace(offset), "s")
	if trimmed == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
