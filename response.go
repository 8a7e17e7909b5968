package agentkit

// FinishReason is the provider-reported cause for ending a generation
// step. The set is closed; adapters map unrecognized backend codes to
// FinishStop rather than failing.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishContentFilter FinishReason = "content_filter"
	FinishError         FinishReason = "error"
)

// Usage counts tokens consumed by a request.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Add accumulates another usage report into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ChatResponse is a complete, non-streaming provider response.
type ChatResponse struct {
	ID           string         `json:"id"`
	Message      Message        `json:"message"`
	FinishReason FinishReason   `json:"finishReason"`
	Usage        *Usage         `json:"usage,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Delta is a partial message fragment carried by one stream chunk. Part
// is nil for metadata-only chunks (usage or finish reason updates).
type Delta struct {
	Role Role  `json:"role"`
	Part *Part `json:"part,omitempty"`
}

// ChatStreamChunk is the canonical incremental response unit, independent
// of any backend's wire events. FinishReason is set only on the terminal
// chunk of a step; Usage only when the backend reports it.
type ChatStreamChunk struct {
	ID           string       `json:"id"`
	Delta        Delta        `json:"delta"`
	FinishReason FinishReason `json:"finishReason,omitempty"`
	Usage        *Usage       `json:"usage,omitempty"`
}

// Empty reports whether the chunk carries neither content nor metadata.
// Adapters filter empty chunks out of the visible sequence.
func (c ChatStreamChunk) Empty() bool {
	return c.Delta.Part == nil && c.FinishReason == "" && c.Usage == nil
}

// StreamResult is one item of a provider chunk stream: either a chunk or
// an error. An error terminates the stream.
type StreamResult struct {
	Chunk *ChatStreamChunk
	Err   error
}
