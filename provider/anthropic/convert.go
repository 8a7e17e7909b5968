package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/agentkit-go/agentkit"
)

// convertMessages translates the canonical conversation into Anthropic
// message params. All system-message text is concatenated, space-joined,
// into the single system string the API accepts. Tool results are sent as
// user messages with tool_result blocks.
func convertMessages(messages []ai.Message) ([]anthropic.MessageParam, string, error) {
	var result []anthropic.MessageParam
	var system []string

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			// The API rejects empty text blocks.
			if text := msg.Text(); text != "" {
				system = append(system, text)
			}
		case ai.RoleUser:
			blocks := convertUserParts(msg.Parts)
			if len(blocks) > 0 {
				result = append(result, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleUser,
					Content: blocks,
				})
			}
		case ai.RoleAssistant:
			blocks, err := convertAssistantParts(msg.Parts)
			if err != nil {
				return nil, "", err
			}
			if len(blocks) > 0 {
				result = append(result, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleAssistant,
					Content: blocks,
				})
			}
		case ai.RoleTool:
			var blocks []anthropic.ContentBlockParamUnion
			for _, tr := range msg.ToolResults() {
				blocks = append(blocks, anthropic.NewToolResultBlock(tr.ToolCallID, string(tr.Result), tr.IsError))
			}
			if len(blocks) > 0 {
				result = append(result, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleUser,
					Content: blocks,
				})
			}
		}
	}

	return result, strings.Join(system, " "), nil
}

func convertUserParts(parts []ai.Part) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range parts {
		switch part.Type {
		case ai.PartTypeText:
			if part.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(part.Text))
			}
		case ai.PartTypeImage:
			if part.Image == nil {
				continue
			}
			if part.Image.URL != "" {
				blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{
					URL: part.Image.URL,
				}))
			} else if part.Image.Base64 != "" {
				mediaType := part.Image.MimeType
				if mediaType == "" {
					mediaType = "image/jpeg"
				}
				blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, part.Image.Base64))
			}
		}
	}
	return blocks
}

func convertAssistantParts(parts []ai.Part) ([]anthropic.ContentBlockParamUnion, error) {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range parts {
		switch part.Type {
		case ai.PartTypeText:
			if part.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(part.Text))
			}
		case ai.PartTypeToolCall:
			if part.ToolCall == nil {
				continue
			}
			var input any
			if len(part.ToolCall.Arguments) > 0 {
				if err := json.Unmarshal(part.ToolCall.Arguments, &input); err != nil {
					return nil, &ai.SerializationError{
						Message: "tool call " + part.ToolCall.Name + ": malformed arguments",
						Cause:   err,
					}
				}
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(part.ToolCall.ID, input, part.ToolCall.Name))
		}
	}
	return blocks, nil
}

func convertTools(tools []ai.ToolDefinition) ([]anthropic.ToolUnionParam, error) {
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		var schema map[string]any
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &schema); err != nil {
				return nil, &ai.SerializationError{
					Message: "tool " + t.Name + ": malformed parameter schema",
					Cause:   err,
				}
			}
		}

		var required []string
		if reqVal, ok := schema["required"].([]any); ok {
			for _, r := range reqVal {
				if s, ok := r.(string); ok {
					required = append(required, s)
				}
			}
		}

		result[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: schema["properties"],
					Required:   required,
				},
			},
		}
	}
	return result, nil
}

// messageFromBlocks rebuilds a canonical assistant message from response
// content blocks.
func messageFromBlocks(blocks []anthropic.ContentBlockUnion) ai.Message {
	msg := ai.Message{Role: ai.RoleAssistant}
	for _, block := range blocks {
		switch block.Type {
		case "text":
			msg = msg.AddText(block.Text)
		case "tool_use":
			msg = msg.AddToolCall(ai.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: json.RawMessage(block.Input),
			})
		}
	}
	return msg
}

// mapStopReason maps an Anthropic stop reason to the canonical finish
// reason. Unknown codes fall back to stop.
func mapStopReason(reason string) ai.FinishReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return ai.FinishStop
	case "max_tokens":
		return ai.FinishLength
	case "tool_use":
		return ai.FinishToolCalls
	case "refusal":
		return ai.FinishContentFilter
	default:
		return ai.FinishStop
	}
}
