//go:build !integration

package usecase

import (
	"encoding/json"
	"fmt"
	"testing"

	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/adapter"
)

func TestNormalizeAnnotation(t *testing.T) {
	t.Run("nil input yields empty summary", func(t *testing.T) {
		got := NormalizeAnnotation(nil)
		if got.Labels == nil || len(got.Labels) != 0 {
			t.Fatalf("want empty non-nil labels, got %#v", got.Labels)
		}
		if got.ShotCount != 0 || got.Transcript != "" || got.DurationSeconds != 0 {
			t.Fatalf("want zero summary, got %+v", got)
		}
	})

	t.Run("labels capped at ten in provider order", func(t *testing.T) {
		raw := &adapter.AnnotationResult{}
		for i := 0; i < 15; i++ {
			raw.SegmentLabelAnnotations = append(raw.SegmentLabelAnnotations, adapter.Label{
				Entity:   adapter.LabelEntity{Description: fmt.Sprintf("label-%d", i)},
				Segments: []adapter.LabelSegment{{Confidence: float64(i) / 100}},
			})
		}
		got := NormalizeAnnotation(raw)
		if len(got.Labels) != 10 {
			t.Fatalf("want 10 labels, got %d", len(got.Labels))
		}
		for i, l := range got.Labels {
			if l.Description != fmt.Sprintf("label-%d", i) {
				t.Fatalf("order not preserved at %d: %q", i, l.Description)
			}
		}
	})

	t.Run("label without segments has zero confidence", func(t *testing.T) {
		raw := &adapter.AnnotationResult{
			SegmentLabelAnnotations: []adapter.Label{
				{Entity: adapter.LabelEntity{Description: "cat"}},
				{Entity: adapter.LabelEntity{Description: "dog"}, Segments: []adapter.LabelSegment{{Confidence: 0.7}, {Confidence: 0.2}}},
			},
		}
		got := NormalizeAnnotation(raw)
		if got.Labels[0].Confidence != 0 {
			t.Fatalf("want 0 confidence, got %f", got.Labels[0].Confidence)
		}
		if got.Labels[1].Confidence != 0.7 {
			t.Fatalf("want first-segment confidence 0.7, got %f", got.Labels[1].Confidence)
		}
	})

	t.Run("transcript joins transcription entries with a space", func(t *testing.T) {
		raw := &adapter.AnnotationResult{
			SpeechTranscriptions: []adapter.SpeechTranscription{
				{Alternatives: []adapter.SpeechAlternative{{Transcript: "hello"}}},
				{Alternatives: []adapter.SpeechAlternative{{Transcript: "world"}}},
			},
		}
		if got := NormalizeAnnotation(raw); got.Transcript != "hello world" {
			t.Fatalf("transcript mismatch: %q", got.Transcript)
		}
	})

	t.Run("transcript trims but keeps inner alternative whitespace", func(t *testing.T) {
		raw := &adapter.AnnotationResult{
			SpeechTranscriptions: []adapter.SpeechTranscription{
				{Alternatives: []adapter.SpeechAlternative{{Transcript: " hello "}}},
				{Alternatives: []adapter.SpeechAlternative{{Transcript: "world"}}},
			},
		}
		got := NormalizeAnnotation(raw)
		if got.Transcript != "hello  world" {
			t.Fatalf("transcript mismatch: %q", got.Transcript)
		}
	})

	t.Run("shot count and duration from trailing segment offset", func(t *testing.T) {
		raw := &adapter.AnnotationResult{
			ShotAnnotations: []adapter.ShotAnnotation{
				{StartTimeOffset: "0s", EndTimeOffset: "4.100s"},
				{StartTimeOffset: "4.100s", EndTimeOffset: "9.800s"},
			},
			Segment: &adapter.VideoSegment{EndTimeOffset: "9.800s"},
		}
		got := NormalizeAnnotation(raw)
		if got.ShotCount != 2 {
			t.Fatalf("want 2 shots, got %d", got.ShotCount)
		}
		if got.DurationSeconds != 9.8 {
			t.Fatalf("want 9.8s, got %f", got.DurationSeconds)
		}
	})
}

func TestParseDurationSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"123.450s", 123.45},
		{"0s", 0},
		{" 5s ", 5},
		{"", 0},
		{"s", 0},
		{"abc", 0},
		{"-3s", 0},
	}
	for _, c := range cases {
		if got := parseDurationSeconds(c.in); got != c.want {
			t.Fatalf("%q: want %f, got %f", c.in, c.want, got)
		}
	}
}

func TestRecommendations(t *testing.T) {
	t.Run("long slow video with weak hook gets all three", func(t *testing.T) {
		technical := model.TechnicalSummary{DurationSeconds: 240, ShotCount: 10}
		qualitative := json.RawMessage(`{"virality_score": 40}`)
		recs := Recommendations(technical, qualitative)
		if len(recs) != 3 {
			t.Fatalf("want 3 recommendations, got %d: %v", len(recs), recs)
		}
	})

	t.Run("short fast video with strong score gets none", func(t *testing.T) {
		technical := model.TechnicalSummary{DurationSeconds: 60, ShotCount: 30}
		qualitative := json.RawMessage(`{"virality_score": 90}`)
		if recs := Recommendations(technical, qualitative); len(recs) != 0 {
			t.Fatalf("want none, got %v", recs)
		}
	})

	t.Run("zero duration skips pacing check", func(t *testing.T) {
		recs := Recommendations(model.TechnicalSummary{}, nil)
		if len(recs) != 0 {
			t.Fatalf("want none, got %v", recs)
		}
	})

	t.Run("unparsable qualitative payload contributes nothing", func(t *testing.T) {
		technical := model.TechnicalSummary{DurationSeconds: 60, ShotCount: 30}
		recs := Recommendations(technical, json.RawMessage(`not json`))
		if len(recs) != 0 {
			t.Fatalf("want none, got %v", recs)
		}
	})
}
