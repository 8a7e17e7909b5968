package anthropic

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/agentkit-go/agentkit"
)

// mapErr translates an SDK error into the canonical error taxonomy.
// Non-API errors (network failures, context cancellation) pass through
// unchanged.
func mapErr(model string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return &ai.AuthenticationError{Provider: "anthropic", Message: err.Error()}
	case http.StatusTooManyRequests:
		return &ai.RateLimitError{
			Provider:   "anthropic",
			Message:    err.Error(),
			RetryDelay: parseRetryAfter(apiErr.Response),
		}
	case http.StatusNotFound:
		return &ai.ModelNotFoundError{Provider: "anthropic", Model: model}
	default:
		return &ai.APIError{
			Provider: "anthropic",
			Status:   apiErr.StatusCode,
			Message:  err.Error(),
		}
	}
}

// parseRetryAfter extracts the Retry-After duration from an HTTP
// response. Returns 0 if the header is absent or unparseable.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}

	return 0
}
