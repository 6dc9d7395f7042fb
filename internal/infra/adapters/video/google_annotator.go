// File: internal/infra/adapters/video/google_annotator.go
package video

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"video-insight/internal/domain/ports/adapter"
)

var _ adapter.VideoAnnotator = (*GoogleAnnotator)(nil)

// GoogleAnnotator implements adapter.VideoAnnotator against the Video
// Intelligence REST API: videos:annotate starts a long-running operation,
// operations/{name} reports its progress. The feature set and language are
// fixed constants of this subsystem, not caller-configurable.
type GoogleAnnotator struct {
	apiKey       string
	base         string // e.g., https://videointelligence.googleapis.com/v1
	languageCode string
	client       *http.Client
}

var annotateFeatures = []string{
	"LABEL_DETECTION",
	"SHOT_CHANGE_DETECTION",
	"SPEECH_TRANSCRIPTION",
}

func NewGoogleAnnotator(apiKey, base, languageCode string) (*GoogleAnnotator, error) {
	if apiKey == "" {
		return nil, errors.New("video intelligence api key empty")
	}
	if base == "" {
		base = "https://videointelligence.googleapis.com/v1"
	}
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &GoogleAnnotator{
		apiKey:       apiKey,
		base:         strings.TrimRight(base, "/"),
		languageCode: languageCode,
		client:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type annotateRequest struct {
	InputURI     string       `json:"inputUri"`
	Features     []string     `json:"features"`
	VideoContext videoContext `json:"videoContext"`
}

type videoContext struct {
	SpeechTranscriptionConfig speechConfig `json:"speechTranscriptionConfig"`
}

type speechConfig struct {
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
}

func (g *GoogleAnnotator) Submit(ctx context.Context, videoReference string) (adapter.OperationHandle, error) {
	body := annotateRequest{
		InputURI: videoReference,
		Features: annotateFeatures,
		VideoContext: videoContext{
			SpeechTranscriptionConfig: speechConfig{
				LanguageCode:               g.languageCode,
				EnableAutomaticPunctuation: true,
			},
		},
	}

	b, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, g.base+"/videos:annotate?key="+g.apiKey, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("videointelligence annotate http %d", resp.StatusCode)
	}

	var out struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Name == "" {
		return "", errors.New("annotate response missing operation name")
	}
	return adapter.OperationHandle(out.Name), nil
}

type operationStatus struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Error    *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Response *struct {
		AnnotationResults []adapter.AnnotationResult `json:"annotationResults"`
	} `json:"response"`
}

func (g *GoogleAnnotator) Poll(ctx context.Context, op adapter.OperationHandle) (*adapter.AnnotationResult, bool, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/"+string(op)+"?key="+g.apiKey, nil)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("videointelligence operation http %d", resp.StatusCode)
	}

	var status operationStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, false, err
	}
	if !status.Done {
		return nil, false, nil
	}
	if status.Error != nil {
		return nil, false, fmt.Errorf("operation failed: %s", status.Error.Message)
	}
	if status.Response == nil || len(status.Response.AnnotationResults) == 0 {
		// Done with nothing to show; the normalizer turns nil into zero values.
		return nil, true, nil
	}
	return &status.Response.AnnotationResults[0], true, nil
}
