// File: internal/infra/adapters/ai/gemini_analyzer.go
package ai

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/genai"

	"video-insight/internal/domain/model"
	"video-insight/internal/domain/ports/adapter"
)

var _ adapter.QualitativeAnalyzer = (*GeminiAnalyzer)(nil)

type GeminiAnalyzer struct {
	client *genai.Client
	model  string
	maxOut int
}

// NewGeminiAnalyzer creates a qualitative analyzer using the official SDK.
func NewGeminiAnalyzer(ctx context.Context, apiKey, baseURL, model string, maxOut int) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	if maxOut <= 0 {
		maxOut = 2048
	}
	return &GeminiAnalyzer{client: c, model: model, maxOut: maxOut}, nil
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, jobID string, technical model.TechnicalSummary) (json.RawMessage, error) {
	chat, err := g.client.Chats.Create(
		ctx,
		g.model,
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(g.maxOut),
		},
		nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: buildPrompt(technical)})
	if err != nil {
		return nil, err
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if text == "" {
		return nil, errors.New("gemini: empty response")
	}
	return extractJSON(text), nil
}
