package anthropic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/agentkit-go/agentkit"
)

// newStreamClient wires a client to a test server replaying a canned SSE
// body for every request.
func newStreamClient(t *testing.T, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return New("test-key", WithRequestOption(option.WithBaseURL(server.URL+"/")))
}

func collectResults(t *testing.T, ch <-chan ai.StreamResult) []ai.StreamResult {
	t.Helper()
	var results []ai.StreamResult
	for res := range ch {
		results = append(results, res)
	}
	return results
}

func sseEvent(event, data string) string {
	return "event: " + event + "\ndata: " + data + "\n\n"
}

func TestGenerateStreamNormalizesTextEvents(t *testing.T) {
	body := sseEvent("message_start", `{"type":"message_start","message":{"id":"msg_01","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":12,"output_tokens":0}}}`) +
		sseEvent("ping", `{"type":"ping"}`) +
		sseEvent("content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`) +
		sseEvent("content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hello"}}`) +
		sseEvent("reticulating_splines", `{"type":"reticulating_splines","progress":0.5}`) +
		sseEvent("content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" there"}}`) +
		sseEvent("content_block_stop", `{"type":"content_block_stop","index":0}`) +
		sseEvent("message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":7}}`) +
		sseEvent("message_stop", `{"type":"message_stop"}`)

	c := newStreamClient(t, body)
	ch, err := c.GenerateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.UserMessage("hi")},
	})
	require.NoError(t, err)

	results := collectResults(t, ch)
	for _, res := range results {
		require.NoError(t, res.Err)
	}

	// Usage chunk, two text deltas, terminal chunk. Ping, block
	// start/stop, and the unrecognized event produce nothing.
	require.Len(t, results, 4)

	first := results[0].Chunk
	require.NotNil(t, first.Usage)
	assert.Equal(t, "msg_01", first.ID)
	assert.Equal(t, 12, first.Usage.PromptTokens)

	var text string
	for _, res := range results[1:3] {
		require.NotNil(t, res.Chunk.Delta.Part)
		require.Equal(t, ai.PartTypeText, res.Chunk.Delta.Part.Type)
		assert.Equal(t, ai.FinishReason(""), res.Chunk.FinishReason)
		text += res.Chunk.Delta.Part.Text
	}
	assert.Equal(t, "Hello there", text)

	last := results[3].Chunk
	assert.Equal(t, ai.FinishStop, last.FinishReason)
	require.NotNil(t, last.Usage)
	assert.Equal(t, 7, last.Usage.CompletionTokens)
}

func TestGenerateStreamEmitsAccumulatedToolCall(t *testing.T) {
	body := sseEvent("message_start", `{"type":"message_start","message":{"id":"msg_02","type":"message","role":"assistant","content":[],"model":"claude-sonnet-4-5","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":5,"output_tokens":0}}}`) +
		sseEvent("content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"toolu_01","name":"get_weather","input":{}}}`) +
		sseEvent("content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"{\"city\":"}}`) +
		sseEvent("content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"\"Oslo\"}"}}`) +
		sseEvent("content_block_stop", `{"type":"content_block_stop","index":0}`) +
		sseEvent("message_delta", `{"type":"message_delta","delta":{"stop_reason":"tool_use","stop_sequence":null},"usage":{"output_tokens":11}}`) +
		sseEvent("message_stop", `{"type":"message_stop"}`)

	c := newStreamClient(t, body)
	ch, err := c.GenerateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.UserMessage("weather in Oslo?")},
	})
	require.NoError(t, err)

	results := collectResults(t, ch)
	for _, res := range results {
		require.NoError(t, res.Err)
	}
	require.Len(t, results, 3)

	call := results[1].Chunk.Delta.Part
	require.NotNil(t, call)
	require.Equal(t, ai.PartTypeToolCall, call.Type)
	require.NotNil(t, call.ToolCall)
	assert.Equal(t, "toolu_01", call.ToolCall.ID)
	assert.Equal(t, "get_weather", call.ToolCall.Name)
	assert.JSONEq(t, `{"city":"Oslo"}`, string(call.ToolCall.Arguments))

	assert.Equal(t, ai.FinishToolCalls, results[2].Chunk.FinishReason)
}

func TestGenerateStreamHTTPErrorBecomesErrItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	c := New("bad-key",
		WithRequestOption(option.WithBaseURL(server.URL+"/")),
		WithRequestOption(option.WithMaxRetries(0)),
	)
	ch, err := c.GenerateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.UserMessage("hi")},
	})
	require.NoError(t, err)

	results := collectResults(t, ch)
	require.Len(t, results, 1)

	var authErr *ai.AuthenticationError
	require.ErrorAs(t, results[0].Err, &authErr)
	assert.Equal(t, "anthropic", authErr.Provider)
}
