package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"

	ai "github.com/agentkit-go/agentkit"
)

// mapErr translates an SDK error into the canonical error taxonomy.
// Non-API errors pass through unchanged.
func mapErr(model string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return &ai.AuthenticationError{Provider: "openai", Message: err.Error()}
	case http.StatusTooManyRequests:
		return &ai.RateLimitError{
			Provider:   "openai",
			Message:    err.Error(),
			RetryDelay: parseRetryAfter(apiErr.Response),
		}
	case http.StatusNotFound:
		return &ai.ModelNotFoundError{Provider: "openai", Model: model}
	default:
		return &ai.APIError{
			Provider: "openai",
			Status:   apiErr.StatusCode,
			Message:  err.Error(),
		}
	}
}

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
