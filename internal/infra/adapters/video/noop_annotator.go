package video

import (
	"context"

	"video-insight/internal/domain/ports/adapter"
)

var _ adapter.VideoAnnotator = (*NoopAnnotator)(nil)

// NoopAnnotator returns a small canned annotation immediately. Used in dev
// mode so the full pipeline can run without provider credentials.
type NoopAnnotator struct{}

func NewNoopAnnotator() *NoopAnnotator { return &NoopAnnotator{} }

func (n *NoopAnnotator) Submit(ctx context.Context, videoReference string) (adapter.OperationHandle, error) {
	return adapter.OperationHandle("noop-operation"), nil
}

func (n *NoopAnnotator) Poll(ctx context.Context, op adapter.OperationHandle) (*adapter.AnnotationResult, bool, error) {
	return &adapter.AnnotationResult{
		SegmentLabelAnnotations: []adapter.Label{
			{Entity: adapter.LabelEntity{Description: "person"}, Segments: []adapter.LabelSegment{{Confidence: 0.91}}},
			{Entity: adapter.LabelEntity{Description: "speech"}, Segments: []adapter.LabelSegment{{Confidence: 0.84}}},
		},
		ShotAnnotations: []adapter.ShotAnnotation{
			{StartTimeOffset: "0s", EndTimeOffset: "4.100s"},
			{StartTimeOffset: "4.100s", EndTimeOffset: "9.800s"},
		},
		SpeechTranscriptions: []adapter.SpeechTranscription{
			{Alternatives: []adapter.SpeechAlternative{{Transcript: "sample transcript"}}},
		},
		Segment: &adapter.VideoSegment{EndTimeOffset: "9.800s"},
	}, true, nil
}
