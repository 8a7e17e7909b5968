package agent

import (
	"context"
	"encoding/json"
	"sync"

	ai "github.com/agentkit-go/agentkit"
	"github.com/agentkit-go/agentkit/internal/history"
	"github.com/agentkit-go/agentkit/tool"
)

// Response is the materialized result of a loop invocation.
type Response struct {
	// Messages is the full accumulated transcript, initial messages
	// included.
	Messages []ai.Message

	// FinalMessage is the assistant message of the last completed step.
	FinalMessage ai.Message

	// Steps counts completed request/response cycles.
	Steps int

	// FinishReason is the last step's finish reason.
	FinishReason ai.FinishReason

	// TotalUsage sums per-step usage. Nil when no step reported usage,
	// which means unknown rather than zero.
	TotalUsage *ai.Usage
}

// Generate runs the loop to completion and returns the materialized
// response. Each step snapshots the current transcript into a request,
// calls the provider, dispatches any tool calls, and consults the
// termination strategy.
//
// A tool call whose name resolves to a definition-only registration ends
// the loop immediately: the assistant message containing the call is the
// final message, and no tool results from that batch are appended. The
// caller inspects the pending calls and decides how to proceed.
func Generate(ctx context.Context, cfg *Config) (*Response, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	runUntil := cfg.strategy()
	hist := history.NewFrom(cfg.messages)
	step := 0
	var total ai.Usage
	hasUsage := false

	for {
		req := ai.ChatRequest{
			Messages: hist.Messages(),
			Settings: cfg.settings,
			Tools:    cfg.defs,
		}

		resp, err := cfg.provider.Generate(ctx, req)
		if err != nil {
			return nil, err
		}

		if resp.Usage != nil {
			total.Add(*resp.Usage)
			hasUsage = true
		}

		hist.Append(resp.Message)

		calls := resp.Message.ToolCalls()
		if len(calls) > 0 && cfg.tools != nil {
			results, pending := executeCalls(ctx, cfg, calls)
			if pending {
				return buildResponse(hist, resp.Message, step, resp.FinishReason, total, hasUsage), nil
			}
			if len(results) > 0 {
				hist.Append(ai.ToolMessage(results...))
			}
		}

		if !runUntil.ShouldContinue(step, resp.FinishReason) {
			return buildResponse(hist, resp.Message, step, resp.FinishReason, total, hasUsage), nil
		}
		step++
	}
}

func buildResponse(hist *history.History, final ai.Message, step int, reason ai.FinishReason, total ai.Usage, hasUsage bool) *Response {
	resp := &Response{
		Messages:     hist.Messages(),
		FinalMessage: final,
		Steps:        step + 1,
		FinishReason: reason,
	}
	if hasUsage {
		u := total
		resp.TotalUsage = &u
	}
	return resp
}

// executeCalls runs one step's tool calls and returns their results in
// call order. pending is true when any call hit a definition-only tool,
// which hands control back to the caller; the partial batch is discarded.
func executeCalls(ctx context.Context, cfg *Config, calls []ai.ToolCall) (results []ai.ToolResult, pending bool) {
	if cfg.parallel {
		return executeParallel(ctx, cfg.tools, calls)
	}
	results = make([]ai.ToolResult, 0, len(calls))
	for _, call := range calls {
		out := cfg.tools.Execute(ctx, call.Name, call.Arguments)
		if out.Status == tool.NoHandler {
			return nil, true
		}
		results = append(results, toolResult(call, out))
	}
	return results, false
}

func executeParallel(ctx context.Context, exec ToolExecutor, calls []ai.ToolCall) ([]ai.ToolResult, bool) {
	outcomes := make([]tool.Outcome, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call ai.ToolCall) {
			defer wg.Done()
			outcomes[i] = exec.Execute(ctx, call.Name, call.Arguments)
		}(i, call)
	}
	wg.Wait()

	results := make([]ai.ToolResult, 0, len(calls))
	for i, out := range outcomes {
		if out.Status == tool.NoHandler {
			return nil, true
		}
		results = append(results, toolResult(calls[i], out))
	}
	return results, false
}

func toolResult(call ai.ToolCall, out tool.Outcome) ai.ToolResult {
	if out.Err != nil {
		return ai.ToolResult{
			ToolCallID: call.ID,
			Result:     errorPayload(out.Err),
			IsError:    true,
		}
	}
	result := out.Result
	if result == nil {
		result = json.RawMessage("null")
	}
	return ai.ToolResult{ToolCallID: call.ID, Result: result}
}

func errorPayload(err error) json.RawMessage {
	raw, merr := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
	if merr != nil {
		return json.RawMessage(`{"error":"tool execution failed"}`)
	}
	return raw
}
