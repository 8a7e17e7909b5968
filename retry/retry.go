package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	ai "github.com/agentkit-go/agentkit"
)

// Do executes fn with retry logic, respecting context cancellation during
// backoff waits. It returns the result on success, or the last error once
// attempts are exhausted or a non-retryable error occurs.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !Retryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff(cfg, attempt, err)):
			}
		}
	}

	return zero, lastErr
}

// DoStream is like Do but for functions returning a channel. It retries
// stream establishment only; errors on an already-open stream are the
// consumer's to handle.
func DoStream[T any](ctx context.Context, cfg Config, fn func() (<-chan T, error)) (<-chan T, error) {
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		ch, err := fn()
		if err == nil {
			return ch, nil
		}

		lastErr = err
		if !Retryable(err) {
			return nil, err
		}

		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(cfg, attempt, err)):
			}
		}
	}

	return nil, lastErr
}

// backoff picks the longer of the computed delay and a server-provided
// Retry-After hint.
func backoff(cfg Config, attempt int, err error) time.Duration {
	delay := cfg.Delay(attempt)
	if hint := ai.RetryAfterOf(err); hint > delay {
		delay = hint
	}
	return delay
}

// Retryable reports whether an error is worth retrying. Categorized
// errors answer for themselves; otherwise common network failure shapes
// are treated as transient.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var cat ai.CategorizedError
	if errors.As(err, &cat) {
		return cat.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return false
}
