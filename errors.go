package agentkit

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation
	// can be retried. Examples: rate limits, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through
	// retry. Examples: invalid API key, model not found.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the caller provided invalid input that
	// must be corrected. Examples: malformed request, schema mismatch.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it
// should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool           // true if Category() == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// AuthenticationError indicates the provider rejected the credential.
type AuthenticationError struct {
	Provider string
	Message  string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %s", e.Provider, e.Message)
}

func (e *AuthenticationError) Category() ErrorCategory   { return ErrorPermanent }
func (e *AuthenticationError) Retryable() bool           { return false }
func (e *AuthenticationError) StatusCode() int           { return 401 }
func (e *AuthenticationError) RetryAfter() time.Duration { return 0 }

// RateLimitError indicates the provider throttled the request.
// RetryDelay is the server-suggested wait, 0 if the server gave none.
type RateLimitError struct {
	Provider   string
	Message    string
	RetryDelay time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryDelay > 0 {
		return fmt.Sprintf("rate limit exceeded for %s (retry after %s): %s",
			e.Provider, e.RetryDelay, e.Message)
	}
	return fmt.Sprintf("rate limit exceeded for %s: %s", e.Provider, e.Message)
}

func (e *RateLimitError) Category() ErrorCategory   { return ErrorTransient }
func (e *RateLimitError) Retryable() bool           { return true }
func (e *RateLimitError) StatusCode() int           { return 429 }
func (e *RateLimitError) RetryAfter() time.Duration { return e.RetryDelay }

// ModelNotFoundError indicates the requested model is unknown to the
// provider.
type ModelNotFoundError struct {
	Provider string
	Model    string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found for provider %s", e.Model, e.Provider)
}

func (e *ModelNotFoundError) Category() ErrorCategory   { return ErrorPermanent }
func (e *ModelNotFoundError) Retryable() bool           { return false }
func (e *ModelNotFoundError) StatusCode() int           { return 404 }
func (e *ModelNotFoundError) RetryAfter() time.Duration { return 0 }

// UnsupportedFeatureError indicates a capability the provider lacks.
type UnsupportedFeatureError struct {
	Provider string
	Feature  string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("feature %q not supported by provider %s", e.Feature, e.Provider)
}

func (e *UnsupportedFeatureError) Category() ErrorCategory   { return ErrorPermanent }
func (e *UnsupportedFeatureError) Retryable() bool           { return false }
func (e *UnsupportedFeatureError) StatusCode() int           { return 0 }
func (e *UnsupportedFeatureError) RetryAfter() time.Duration { return 0 }

// APIError is a generic provider error carrying the HTTP status.
type APIError struct {
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error from %s (HTTP %d): %s", e.Provider, e.Status, e.Message)
}

// Category treats 429 and server-side failures as transient.
func (e *APIError) Category() ErrorCategory {
	if e.Status == 429 || e.Status >= 500 {
		return ErrorTransient
	}
	return ErrorPermanent
}

func (e *APIError) Retryable() bool           { return e.Category() == ErrorTransient }
func (e *APIError) StatusCode() int           { return e.Status }
func (e *APIError) RetryAfter() time.Duration { return 0 }

// ValidationError indicates a request is incompatible with a provider or
// otherwise malformed. It is raised before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Category() ErrorCategory   { return ErrorUserInput }
func (e *ValidationError) Retryable() bool           { return false }
func (e *ValidationError) StatusCode() int           { return 0 }
func (e *ValidationError) RetryAfter() time.Duration { return 0 }

// SerializationError indicates JSON encoding or decoding failed, either
// for a provider response or a tool input.
type SerializationError struct {
	Message string
	Cause   error
}

func (e *SerializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serialization error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("serialization error: %s", e.Message)
}

func (e *SerializationError) Unwrap() error { return e.Cause }

func (e *SerializationError) Category() ErrorCategory   { return ErrorUserInput }
func (e *SerializationError) Retryable() bool           { return false }
func (e *SerializationError) StatusCode() int           { return 0 }
func (e *SerializationError) RetryAfter() time.Duration { return 0 }

// IsTransient returns true if the error or any wrapped error is
// categorized as transient.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error or any wrapped error is
// categorized as permanent.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput returns true if the error or any wrapped error is
// categorized as a user input error.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
