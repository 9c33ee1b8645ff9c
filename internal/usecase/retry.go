package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/smart-sa/smorti/internal/domain/constants"
	"github.com/smart-sa/smorti/internal/domain/repository"
	"github.com/smart-sa/smorti/pkg/logger"
)

// completeWithRetry runs the single-shot AI call under the retry budget.
// Rate limits wait longer without growing the base delay; other retryable
// errors back off exponentially. Auth errors and cancelled contexts fail
// straight through.
func (u *smortiUseCase) completeWithRetry(ctx context.Context, req repository.CompletionRequest) (string, error) {
	delay := constants.RetryDelay
	var lastErr error

	for attempt := 1; attempt <= constants.MaxRetries; attempt++ {
		out, err := u.ai.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !repository.IsRetryable(err) {
			return "", err
		}
		logger.Warn().Int("attempt", attempt).Err(err).Msg("llm call failed")
		if attempt == constants.MaxRetries {
			break
		}

		var wait time.Duration
		if errors.Is(err, repository.ErrRateLimited) {
			wait = delay * constants.RateLimitFactor
		} else {
			wait = delay
			delay *= constants.RetryBackoff
		}
		if err := u.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
