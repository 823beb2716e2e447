package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/gradboard/internal/model"
)

// RetryFetcher is a decorator that retries transient document fetch failures
// with exponential backoff and jitter.
type RetryFetcher struct {
	inner      model.DocumentFetcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps a DocumentFetcher with retry logic.
// maxRetries is the number of additional attempts after the first failure;
// zero means a single attempt. baseDelay is the delay before the first retry,
// doubled on each subsequent retry.
func NewRetryFetcher(inner model.DocumentFetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// FetchDocument attempts the fetch, retrying on transient errors.
func (f *RetryFetcher) FetchDocument(ctx context.Context) (model.Document, error) {
	doc, err := f.inner.FetchDocument(ctx)
	if err == nil {
		return doc, nil
	}

	if f.maxRetries == 0 || !isRetryable(err) {
		return model.Document{}, err
	}

	var lastErr error = err
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		delay := f.backoffDelay(attempt, lastErr)

		f.logger.Warn("retrying document fetch",
			"attempt", attempt,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return model.Document{}, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		doc, err = f.inner.FetchDocument(ctx)
		if err == nil {
			return doc, nil
		}

		if !isRetryable(err) {
			return model.Document{}, err
		}
		lastErr = err
	}

	return model.Document{}, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
func (f *RetryFetcher) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := f.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	// Apply ±30% jitter
	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		// 429 Too Many Requests: retryable.
		if httpErr.StatusCode == 429 {
			return true
		}
		// 5xx: retryable.
		if httpErr.StatusCode >= 500 {
			return true
		}
		// 4xx (not 429): not retryable.
		return false
	}

	// Non-HTTP errors (network, DNS): retryable.
	return true
}
