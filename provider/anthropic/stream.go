package anthropic

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/agentkit-go/agentkit"
)

// GenerateStream opens one streaming Messages API call and normalizes the
// SSE events into canonical chunks. Text deltas are forwarded as they
// arrive; a tool call is emitted once its content block completes, with
// the input JSON fully accumulated. The terminal chunk carries the finish
// reason and usage from the message_delta event. Unknown event types are
// ignored.
func (c *Client) GenerateStream(ctx context.Context, req ai.ChatRequest) (<-chan ai.StreamResult, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}

	params, err := c.buildParams(req)
	if err != nil {
		return nil, err
	}
	stream := c.client.Messages.NewStreaming(ctx, params)
	out := make(chan ai.StreamResult)

	go func() {
		defer close(out)

		var acc anthropic.Message
		id := ""

		for stream.Next() {
			event := stream.Current()
			acc.Accumulate(event)

			switch event.Type {
			case "message_start":
				start := event.AsMessageStart()
				id = start.Message.ID
				usage := ai.Usage{
					PromptTokens: int(start.Message.Usage.InputTokens),
					TotalTokens:  int(start.Message.Usage.InputTokens),
				}
				chunk := &ai.ChatStreamChunk{
					ID:    id,
					Delta: ai.Delta{Role: ai.RoleAssistant},
					Usage: &usage,
				}
				if !sendChunk(ctx, out, chunk) {
					return
				}

			case "content_block_delta":
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" && textDelta.Text != "" {
					part := ai.TextPart(textDelta.Text)
					chunk := &ai.ChatStreamChunk{
						ID:    id,
						Delta: ai.Delta{Role: ai.RoleAssistant, Part: &part},
					}
					if !sendChunk(ctx, out, chunk) {
						return
					}
				}

			case "content_block_stop":
				stop := event.AsContentBlockStop()
				idx := int(stop.Index)
				if idx >= len(acc.Content) {
					continue
				}
				block := acc.Content[idx]
				if block.Type != "tool_use" {
					continue
				}
				part := ai.ToolCallPart(ai.ToolCall{
					ID:        block.ID,
					Name:      block.Name,
					Arguments: json.RawMessage(block.Input),
				})
				chunk := &ai.ChatStreamChunk{
					ID:    id,
					Delta: ai.Delta{Role: ai.RoleAssistant, Part: &part},
				}
				if !sendChunk(ctx, out, chunk) {
					return
				}

			case "message_delta":
				delta := event.AsMessageDelta()
				usage := ai.Usage{
					PromptTokens:     int(acc.Usage.InputTokens),
					CompletionTokens: int(acc.Usage.OutputTokens),
					TotalTokens:      int(acc.Usage.InputTokens + acc.Usage.OutputTokens),
				}
				chunk := &ai.ChatStreamChunk{
					ID:           id,
					Delta:        ai.Delta{Role: ai.RoleAssistant},
					FinishReason: mapStopReason(string(delta.Delta.StopReason)),
					Usage:        &usage,
				}
				if !sendChunk(ctx, out, chunk) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			select {
			case out <- ai.StreamResult{Err: mapErr(c.model.String(), err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}

func sendChunk(ctx context.Context, out chan<- ai.StreamResult, chunk *ai.ChatStreamChunk) bool {
	if chunk.Empty() {
		return true
	}
	select {
	case out <- ai.StreamResult{Chunk: chunk}:
		return true
	case <-ctx.Done():
		return false
	}
}
