package agentkit

import (
	"context"
	"fmt"
)

// Provider is the capability a chat backend implements. Generate performs
// one blocking request/response exchange; GenerateStream yields the same
// content incrementally as canonical chunks. The returned channel is
// forward-only and single-consumption: it is closed when the step's
// terminal chunk (or an error item) has been delivered.
//
// Retries, timeouts and transport configuration are the provider's
// concern; callers never retry through this interface.
type Provider interface {
	// Name returns the provider identifier, e.g. "anthropic".
	Name() string

	// Model returns the model identifier in use.
	Model() string

	// SupportsTools reports whether the backend accepts tool definitions.
	SupportsTools() bool

	// SupportsVision reports whether the backend accepts image parts.
	SupportsVision() bool

	// SupportsSystemMessages reports whether the backend accepts system
	// messages.
	SupportsSystemMessages() bool

	// MaxTokens returns the model's output token ceiling, or 0 if unknown.
	MaxTokens() int

	// Validate checks a request against the provider's capabilities.
	// It is a local check and performs no network calls.
	Validate(req ChatRequest) error

	// Generate sends the request and returns the complete response.
	Generate(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// GenerateStream sends the request and returns a channel of chunks.
	// An error item terminates the sequence; the channel is always closed.
	GenerateStream(ctx context.Context, req ChatRequest) (<-chan StreamResult, error)
}

// ValidateRequest implements the standard capability checks shared by
// provider adapters: tool use against SupportsTools, image parts against
// SupportsVision and system messages against SupportsSystemMessages.
// Violations are reported as *ValidationError before any network call.
func ValidateRequest(p Provider, req ChatRequest) error {
	if len(req.Tools) > 0 && !p.SupportsTools() {
		return &ValidationError{
			Field:   "tools",
			Message: fmt.Sprintf("provider %s does not support tool calling", p.Name()),
		}
	}

	for i, msg := range req.Messages {
		field := fmt.Sprintf("messages[%d]", i)
		switch msg.Role {
		case RoleSystem:
			if !p.SupportsSystemMessages() {
				return &ValidationError{
					Field:   field,
					Message: fmt.Sprintf("provider %s does not support system messages", p.Name()),
				}
			}
		case RoleUser:
			for _, part := range msg.Parts {
				if part.Type == PartTypeImage && !p.SupportsVision() {
					return &ValidationError{
						Field:   field,
						Message: fmt.Sprintf("provider %s does not support vision", p.Name()),
					}
				}
			}
		case RoleAssistant:
			if msg.HasToolCalls() && !p.SupportsTools() {
				return &ValidationError{
					Field:   field,
					Message: fmt.Sprintf("provider %s does not support tool calls", p.Name()),
				}
			}
		case RoleTool:
			if !p.SupportsTools() {
				return &ValidationError{
					Field:   field,
					Message: fmt.Sprintf("provider %s does not support tool results", p.Name()),
				}
			}
		}
	}

	return nil
}
