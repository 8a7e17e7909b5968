package openai

import (
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	ai "github.com/agentkit-go/agentkit"
)

func convertMessages(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			if text := msg.Text(); text != "" {
				result = append(result, openai.SystemMessage(text))
			}
		case ai.RoleUser:
			if hasImage(msg.Parts) {
				parts := convertUserParts(msg.Parts)
				if len(parts) > 0 {
					result = append(result, openai.ChatCompletionMessageParamUnion{
						OfUser: &openai.ChatCompletionUserMessageParam{
							Content: openai.ChatCompletionUserMessageParamContentUnion{
								OfArrayOfContentParts: parts,
							},
						},
					})
				}
			} else if text := msg.Text(); text != "" {
				result = append(result, openai.UserMessage(text))
			}
		case ai.RoleAssistant:
			calls := msg.ToolCalls()
			if len(calls) > 0 {
				toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(calls))
				for i, tc := range calls {
					toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: string(tc.Arguments),
						},
					}
				}
				assistantMsg := openai.ChatCompletionAssistantMessageParam{
					ToolCalls: toolCalls,
				}
				if text := msg.Text(); text != "" {
					assistantMsg.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
						OfString: openai.String(text),
					}
				}
				result = append(result, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &assistantMsg,
				})
			} else if text := msg.Text(); text != "" {
				result = append(result, openai.AssistantMessage(text))
			}
		case ai.RoleTool:
			// One wire message per tool result.
			for _, tr := range msg.ToolResults() {
				result = append(result, openai.ToolMessage(string(tr.Result), tr.ToolCallID))
			}
		}
	}
	return result
}

func hasImage(parts []ai.Part) bool {
	for _, part := range parts {
		if part.Type == ai.PartTypeImage {
			return true
		}
	}
	return false
}

func convertUserParts(parts []ai.Part) []openai.ChatCompletionContentPartUnionParam {
	var result []openai.ChatCompletionContentPartUnionParam
	for _, part := range parts {
		switch part.Type {
		case ai.PartTypeText:
			if part.Text != "" {
				result = append(result, openai.TextContentPart(part.Text))
			}
		case ai.PartTypeImage:
			if part.Image == nil {
				continue
			}
			url := part.Image.URL
			if url == "" && part.Image.Base64 != "" {
				mimeType := part.Image.MimeType
				if mimeType == "" {
					mimeType = "image/jpeg"
				}
				url = fmt.Sprintf("data:%s;base64,%s", mimeType, part.Image.Base64)
			}
			if url != "" {
				result = append(result, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: url,
				}))
			}
		}
	}
	return result
}

func convertTools(tools []ai.ToolDefinition) ([]openai.ChatCompletionToolParam, error) {
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		var params shared.FunctionParameters
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &params); err != nil {
				return nil, &ai.SerializationError{
					Message: "tool " + t.Name + ": malformed parameter schema",
					Cause:   err,
				}
			}
		}
		result[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  params,
			},
		}
	}
	return result, nil
}

func messageFromCompletion(msg openai.ChatCompletionMessage) ai.Message {
	out := ai.Message{Role: ai.RoleAssistant}
	if msg.Content != "" {
		out = out.AddText(msg.Content)
	}
	for _, tc := range msg.ToolCalls {
		out = out.AddToolCall(ai.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: rawArguments(tc.Function.Arguments),
		})
	}
	return out
}

// rawArguments guards against models emitting empty argument strings,
// which are not valid JSON.
func rawArguments(args string) json.RawMessage {
	if args == "" {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(args)
}

// mapFinishReason maps an OpenAI finish reason to the canonical finish
// reason. Unknown codes fall back to stop.
func mapFinishReason(reason string) ai.FinishReason {
	switch reason {
	case "stop":
		return ai.FinishStop
	case "length":
		return ai.FinishLength
	case "tool_calls", "function_call":
		return ai.FinishToolCalls
	case "content_filter":
		return ai.FinishContentFilter
	default:
		return ai.FinishStop
	}
}
