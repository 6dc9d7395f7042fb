package adapter

import "context"

// Raw annotation payload shapes as returned by the provider. Only the fields
// the normalizer consumes are modeled; everything else is ignored on decode.

type LabelEntity struct {
	Description string `json:"description"`
}

type LabelSegment struct {
	Confidence float64 `json:"confidence"`
}

type Label struct {
	Entity   LabelEntity    `json:"entity"`
	Segments []LabelSegment `json:"segments"`
}

type SpeechAlternative struct {
	Transcript string `json:"transcript"`
}

type SpeechTranscription struct {
	Alternatives []SpeechAlternative `json:"alternatives"`
}

type ShotAnnotation struct {
	StartTimeOffset string `json:"startTimeOffset"`
	EndTimeOffset   string `json:"endTimeOffset"`
}

type VideoSegment struct {
	// EndTimeOffset is a duration string with a trailing unit suffix,
	// e.g. "123.450s".
	EndTimeOffset string `json:"endTimeOffset"`
}

// AnnotationResult is the first annotation group of a finished operation.
type AnnotationResult struct {
	SegmentLabelAnnotations []Label               `json:"segmentLabelAnnotations"`
	ShotAnnotations         []ShotAnnotation      `json:"shotAnnotations"`
	SpeechTranscriptions    []SpeechTranscription `json:"speechTranscriptions"`
	Segment                 *VideoSegment         `json:"segment"`
}

// OperationHandle identifies an in-flight asynchronous annotate operation.
type OperationHandle string

// VideoAnnotator is the port for the external asynchronous annotation
// provider. Submit starts an operation; Poll checks it once. The poll loop
// itself (interval, attempt ceiling) belongs to the orchestrator.
type VideoAnnotator interface {
	Submit(ctx context.Context, videoReference string) (OperationHandle, error)
	// Poll returns (result, true, nil) once the operation is done,
	// (nil, false, nil) while it is still running.
	Poll(ctx context.Context, op OperationHandle) (*AnnotationResult, bool, error)
}
