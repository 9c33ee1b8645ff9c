package repository

import (
	"context"
	"errors"

	"github.com/smart-sa/smorti/internal/domain/entity"
)

// CompletionRequest carries one LLM call: the grounding system prompt, a
// bounded window of prior turns, and the current user prompt.
type CompletionRequest struct {
	System      string
	History     []entity.Turn
	Prompt      string
	Temperature float32
	MaxTokens   int32
}

// AIRepository is a single-attempt completion call. Retry policy lives in
// the caller so failure kinds stay enumerable.
type AIRepository interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Failure kinds surfaced by AIRepository implementations. Callers pick the
// backoff strategy with errors.Is.
var (
	ErrRateLimited   = errors.New("ai: rate limited")
	ErrAuth          = errors.New("ai: authentication failed")
	ErrTimeout       = errors.New("ai: request timed out")
	ErrUnavailable   = errors.New("ai: service unavailable")
	ErrEmptyResponse = errors.New("ai: empty response")
)

// IsRetryable reports whether the turn handler should attempt the call again.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrAuth):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}
