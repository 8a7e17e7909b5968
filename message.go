package agentkit

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Role identifies the sender of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartType identifies the kind of content carried by a message part.
type PartType string

const (
	PartTypeText       PartType = "text"
	PartTypeImage      PartType = "image"
	PartTypeToolCall   PartType = "tool_call"
	PartTypeToolResult PartType = "tool_result"
)

// Image is image content with either a URL or inline base64 data.
// Base64 requires MimeType; for URLs it may be inferred by the backend.
type Image struct {
	URL      string `json:"url,omitempty"`
	Base64   string `json:"base64,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// ToolCall is a request from the model to invoke a named tool.
type ToolCall struct {
	// ID is a unique identifier for this call, used to correlate results.
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is the structured JSON input for the tool.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the outcome of executing a tool call.
type ToolResult struct {
	// ToolCallID matches the ID of the corresponding ToolCall.
	ToolCallID string `json:"toolCallId"`
	// Result is the structured JSON output returned to the model.
	Result json.RawMessage `json:"result"`
	// IsError marks the result as a failure the model may recover from.
	IsError bool `json:"isError,omitempty"`
}

// Part is a single piece of message content. Exactly one payload field is
// set, selected by Type.
type Part struct {
	Type       PartType    `json:"type"`
	Text       string      `json:"text,omitempty"`
	Image      *Image      `json:"image,omitempty"`
	ToolCall   *ToolCall   `json:"toolCall,omitempty"`
	ToolResult *ToolResult `json:"toolResult,omitempty"`
}

// TextPart creates a text content part.
func TextPart(text string) Part {
	return Part{Type: PartTypeText, Text: text}
}

// ImageURLPart creates an image part referencing a URL.
func ImageURLPart(url string) Part {
	return Part{Type: PartTypeImage, Image: &Image{URL: url}}
}

// ImageBase64Part creates an image part from base64-encoded data.
func ImageBase64Part(data, mimeType string) Part {
	return Part{Type: PartTypeImage, Image: &Image{Base64: data, MimeType: mimeType}}
}

// ToolCallPart creates a tool-call content part.
func ToolCallPart(call ToolCall) Part {
	return Part{Type: PartTypeToolCall, ToolCall: &call}
}

// ToolResultPart creates a tool-result content part.
func ToolResultPart(result ToolResult) Part {
	return Part{Type: PartTypeToolResult, ToolResult: &result}
}

// Message is a single role-tagged entry in a conversation. Each role
// permits a fixed set of part types:
//
//	system:    text
//	user:      text, image
//	assistant: text, tool_call
//	tool:      tool_result
//
// Constructors and the Add* methods enforce the mapping; parts that are
// not valid for the message's role are silently dropped.
type Message struct {
	Role     Role           `json:"role"`
	Parts    []Part         `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// allowedPart reports whether a part type is valid for a role.
func allowedPart(role Role, t PartType) bool {
	switch role {
	case RoleSystem:
		return t == PartTypeText
	case RoleUser:
		return t == PartTypeText || t == PartTypeImage
	case RoleAssistant:
		return t == PartTypeText || t == PartTypeToolCall
	case RoleTool:
		return t == PartTypeToolResult
	}
	return false
}

// SystemMessage creates a system message with a single text part.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Parts: []Part{TextPart(text)}}
}

// UserMessage creates a user message with a single text part.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart(text)}}
}

// AssistantMessage creates an assistant message with a single text part.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Parts: []Part{TextPart(text)}}
}

// ToolMessage creates a tool message carrying one or more tool results.
func ToolMessage(results ...ToolResult) Message {
	parts := make([]Part, len(results))
	for i, r := range results {
		parts[i] = ToolResultPart(r)
	}
	return Message{Role: RoleTool, Parts: parts}
}

// AddText appends a text part. Valid for system, user and assistant
// messages; a no-op otherwise.
func (m Message) AddText(text string) Message {
	return m.addPart(TextPart(text))
}

// AddImage appends an image part. Valid only for user messages.
func (m Message) AddImage(img Image) Message {
	return m.addPart(Part{Type: PartTypeImage, Image: &img})
}

// AddToolCall appends a tool-call part. Valid only for assistant messages.
func (m Message) AddToolCall(call ToolCall) Message {
	return m.addPart(ToolCallPart(call))
}

// AddToolResult appends a tool-result part. Valid only for tool messages.
func (m Message) AddToolResult(result ToolResult) Message {
	return m.addPart(ToolResultPart(result))
}

// WithMetadata returns a copy of the message with a metadata key set.
func (m Message) WithMetadata(key string, value any) Message {
	meta := make(map[string]any, len(m.Metadata)+1)
	for k, v := range m.Metadata {
		meta[k] = v
	}
	meta[key] = value
	m.Metadata = meta
	return m
}

func (m Message) addPart(p Part) Message {
	if !allowedPart(m.Role, p.Type) {
		return m
	}
	parts := make([]Part, len(m.Parts), len(m.Parts)+1)
	copy(parts, m.Parts)
	m.Parts = append(parts, p)
	return m
}

// Text returns the concatenation of all text parts.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			out += p.Text
		}
	}
	return out
}

// ToolCalls returns all tool calls carried by an assistant message.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if p.Type == PartTypeToolCall && p.ToolCall != nil {
			calls = append(calls, *p.ToolCall)
		}
	}
	return calls
}

// ToolResults returns all tool results carried by a tool message.
func (m Message) ToolResults() []ToolResult {
	var results []ToolResult
	for _, p := range m.Parts {
		if p.Type == PartTypeToolResult && p.ToolResult != nil {
			results = append(results, *p.ToolResult)
		}
	}
	return results
}

// HasToolCalls reports whether the message carries at least one tool call.
func (m Message) HasToolCalls() bool {
	for _, p := range m.Parts {
		if p.Type == PartTypeToolCall {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes a message and enforces the role/part mapping.
// A part that is not valid for the decoded role is a serialization error,
// not a silent drop, so corrupted history is caught at the boundary.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return &SerializationError{Message: "decoding message", Cause: err}
	}
	for _, p := range a.Parts {
		if !allowedPart(a.Role, p.Type) {
			return &SerializationError{
				Message: fmt.Sprintf("part type %q is not valid for role %q", p.Type, a.Role),
			}
		}
	}
	*m = Message(a)
	return nil
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// ValidateConversation checks the tool-call correlation invariant: every
// tool result must reference a tool call issued by a preceding assistant
// message. Returns nil for a well-formed conversation.
func ValidateConversation(messages []Message) error {
	seen := make(map[string]bool)
	for i, msg := range messages {
		switch msg.Role {
		case RoleAssistant:
			for _, call := range msg.ToolCalls() {
				seen[call.ID] = true
			}
		case RoleTool:
			for _, result := range msg.ToolResults() {
				if !seen[result.ToolCallID] {
					return &ValidationError{
						Field: fmt.Sprintf("messages[%d]", i),
						Message: fmt.Sprintf("tool result %q does not match any preceding tool call",
							result.ToolCallID),
					}
				}
			}
		}
	}
	return nil
}
