package agent

import (
	"context"

	ai "github.com/agentkit-go/agentkit"
	"github.com/agentkit-go/agentkit/internal/history"
)

// StreamChunk is one provider chunk tagged with the step that produced it.
// Final marks the terminal chunk of a step.
type StreamChunk struct {
	Step  int
	Chunk ai.ChatStreamChunk
	Final bool
}

// StreamItem is one element of the stream sequence: a chunk or an error.
type StreamItem struct {
	Chunk *StreamChunk
	Err   error
}

// Stream runs the loop incrementally, forwarding every provider chunk as
// it arrives. The channel is unbuffered, so a slow consumer applies
// backpressure to the provider. The sequence ends when the termination
// strategy stops the loop, when a definition-only tool is called (the
// channel closes with no error item; the caller resumes from its own
// transcript), or after an error item.
//
// Cancel via ctx to stop consuming early; tool calls already dispatched
// for the current step run to completion.
func Stream(ctx context.Context, cfg *Config) <-chan StreamItem {
	out := make(chan StreamItem)
	go func() {
		defer close(out)

		if err := cfg.validate(); err != nil {
			send(ctx, out, StreamItem{Err: err})
			return
		}

		runUntil := cfg.strategy()
		hist := history.NewFrom(cfg.messages)
		step := 0

		for {
			req := ai.ChatRequest{
				Messages: hist.Messages(),
				Settings: cfg.settings,
				Tools:    cfg.defs,
			}

			chunks, err := cfg.provider.GenerateStream(ctx, req)
			if err != nil {
				send(ctx, out, StreamItem{Err: err})
				return
			}

			var acc stepAccumulator
			finish := ai.FinishReason("")

			for res := range chunks {
				if res.Err != nil {
					send(ctx, out, StreamItem{Err: res.Err})
					return
				}
				chunk := res.Chunk
				final := chunk.FinishReason != ""
				if final {
					finish = chunk.FinishReason
				}
				acc.add(chunk)
				item := StreamItem{Chunk: &StreamChunk{Step: step, Chunk: *chunk, Final: final}}
				if !send(ctx, out, item) {
					return
				}
			}

			if finish == "" {
				// Stream ended without a terminal chunk. Treat it as a
				// normal stop so the strategy still gets consulted.
				finish = ai.FinishStop
			}

			msg := acc.message()
			hist.Append(msg)

			calls := msg.ToolCalls()
			if len(calls) > 0 && cfg.tools != nil {
				results, pending := executeCalls(ctx, cfg, calls)
				if pending {
					return
				}
				if len(results) > 0 {
					hist.Append(ai.ToolMessage(results...))
				}
			}

			if !runUntil.ShouldContinue(step, finish) {
				return
			}
			step++
		}
	}()
	return out
}

func send(ctx context.Context, out chan<- StreamItem, item StreamItem) bool {
	select {
	case out <- item:
		return true
	case <-ctx.Done():
		return false
	}
}

// stepAccumulator rebuilds one assistant message from a step's deltas.
// Contiguous text deltas collapse into a single text part.
type stepAccumulator struct {
	parts []ai.Part
}

func (a *stepAccumulator) add(chunk *ai.ChatStreamChunk) {
	part := chunk.Delta.Part
	if part == nil {
		return
	}
	switch part.Type {
	case ai.PartTypeText:
		if part.Text == "" {
			return
		}
		if n := len(a.parts); n > 0 && a.parts[n-1].Type == ai.PartTypeText {
			a.parts[n-1].Text += part.Text
			return
		}
		a.parts = append(a.parts, ai.TextPart(part.Text))
	case ai.PartTypeToolCall:
		if part.ToolCall != nil {
			a.parts = append(a.parts, *part)
		}
	}
}

func (a *stepAccumulator) message() ai.Message {
	return ai.Message{Role: ai.RoleAssistant, Parts: a.parts}
}
