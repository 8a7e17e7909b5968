package agentkit

import "encoding/json"

// GenerationSettings holds optional sampling parameters for a request.
// Zero values (nil pointers, 0, empty slices) mean "use the backend's
// default"; there is no ambient global configuration.
type GenerationSettings struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxTokens        int      `json:"maxTokens,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	TopK             int      `json:"topK,omitempty"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty"`
	StopSequences    []string `json:"stopSequences,omitempty"`
	Seed             *int64   `json:"seed,omitempty"`
}

// ToolDefinition is the exact tool shape handed to a provider's tools
// field: name, description (empty string if none) and a JSON-Schema
// parameters object (empty object if none).
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ChatRequest is a single provider invocation: the conversation so far,
// the generation settings and the tools the model may call.
type ChatRequest struct {
	Messages []Message          `json:"messages"`
	Settings GenerationSettings `json:"settings"`
	Tools    []ToolDefinition   `json:"tools,omitempty"`
}

// NewChatRequest creates an empty chat request.
func NewChatRequest() ChatRequest {
	return ChatRequest{}
}

// Message appends a message to the request.
func (r ChatRequest) Message(msg Message) ChatRequest {
	r.Messages = append(r.Messages[:len(r.Messages):len(r.Messages)], msg)
	return r
}

// System appends a system message with the given text.
func (r ChatRequest) System(text string) ChatRequest {
	return r.Message(SystemMessage(text))
}

// User appends a user message with the given text.
func (r ChatRequest) User(text string) ChatRequest {
	return r.Message(UserMessage(text))
}

// Assistant appends an assistant message with the given text.
func (r ChatRequest) Assistant(text string) ChatRequest {
	return r.Message(AssistantMessage(text))
}

// WithTemperature sets the sampling temperature.
func (r ChatRequest) WithTemperature(t float64) ChatRequest {
	r.Settings.Temperature = &t
	return r
}

// WithMaxTokens sets the maximum number of tokens to generate.
func (r ChatRequest) WithMaxTokens(n int) ChatRequest {
	r.Settings.MaxTokens = n
	return r
}

// WithTools sets the tool definitions offered to the model.
func (r ChatRequest) WithTools(tools []ToolDefinition) ChatRequest {
	r.Tools = tools
	return r
}
