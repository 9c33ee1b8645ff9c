package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/smart-sa/smorti/internal/domain/repository"
	"github.com/smart-sa/smorti/pkg/logger"
)

const (
	defaultTopK int32   = 40
	defaultTopP float32 = 0.95
)

type geminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient opens one genai client. Each Complete call builds its own
// model handle because temperature, token budget and system prompt differ
// per call site (grounded answer vs tone rewrite).
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (repository.AIRepository, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiClient{client: client, modelName: modelName}, nil
}

// Complete performs exactly one generation attempt. Retry policy belongs to
// the caller, which needs to count attempts and pick backoff per error kind.
func (g *geminiClient) Complete(ctx context.Context, req repository.CompletionRequest) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(req.Temperature)
	model.SetTopK(defaultTopK)
	model.SetTopP(defaultTopP)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	var parts []genai.Part
	for _, turn := range req.History {
		if turn.Content == "" {
			continue
		}
		switch turn.Role {
		case "assistant":
			parts = append(parts, genai.Text("Assistant: "+turn.Content))
		default:
			parts = append(parts, genai.Text("User: "+turn.Content))
		}
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Candidates) == 0 {
		return "", repository.ErrEmptyResponse
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		logger.Warn().Str("model", g.modelName).Msg("response blocked by safety filter")
		return "", repository.ErrEmptyResponse
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", repository.ErrEmptyResponse
	}
	return text, nil
}

// classifyError maps provider errors onto the domain error taxonomy by
// message inspection, since the SDK does not expose stable error types for
// quota and auth failures.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "429"), strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource_exhausted"):
		return fmt.Errorf("%w: %v", repository.ErrRateLimited, err)
	case strings.Contains(msg, "api key"), strings.Contains(msg, "401"),
		strings.Contains(msg, "unauthorized"), strings.Contains(msg, "permission"):
		return fmt.Errorf("%w: %v", repository.ErrAuth, err)
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"),
		strings.Contains(msg, "deadline"):
		return fmt.Errorf("%w: %v", repository.ErrTimeout, err)
	case strings.Contains(msg, "503"), strings.Contains(msg, "502"),
		strings.Contains(msg, "unavailable"), strings.Contains(msg, "overloaded"):
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	default:
		return fmt.Errorf("gemini: %w", err)
	}
}

func extractText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			b.WriteString(fmt.Sprintf("%v", part))
		}
	}
	return b.String()
}

func (g *geminiClient) Close() error {
	return g.client.Close()
}
