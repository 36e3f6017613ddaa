package webhook

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// StatusError reports a webhook response outside the 2xx range
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.Code)
}

// retry calls attempt until it succeeds, fails permanently, the retry budget
// is spent or ctx ends. onRetry runs before each retry with its delay.
func retry(ctx context.Context, config *RetryConfig, onRetry func(n int, delay time.Duration), attempt func() error) error {
	var lastErr error

	for n := 0; n <= config.MaxRetries; n++ {
		if n > 0 {
			delay := calculateBackoff(n, config)
			if onRetry != nil {
				onRetry(n, delay)
			}

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("webhook timeout after %d attempts: %w", n, ctx.Err())
			}
		}

		err := attempt()
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("attempt %d failed: %w", n+1, err)

		if !retryable(err) {
			return lastErr
		}
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", config.MaxRetries+1, lastErr)
}

// retryable treats transport errors and transient statuses as worth retrying
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return isRetryableStatus(statusErr.Code)
	}
	return true
}

// calculateBackoff returns the delay before retry attempt n:
// initialDelay * multiplier^(n-1), capped at maxDelay, with ±10% jitter.
func calculateBackoff(attempt int, config *RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	multiplier := config.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	delay := float64(config.InitialDelay) * math.Pow(multiplier, float64(attempt-1))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	jitter := delay * 0.1
	delay += (rand.Float64()*2 - 1) * jitter

	return time.Duration(delay)
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
