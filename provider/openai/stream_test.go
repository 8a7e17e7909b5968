package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/agentkit-go/agentkit"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New("test-key",
		WithRequestOption(option.WithBaseURL(server.URL+"/")),
		WithRequestOption(option.WithMaxRetries(0)),
	)
}

func sseData(data string) string {
	return "data: " + data + "\n\n"
}

func TestGenerateStreamNormalizesChunks(t *testing.T) {
	body := sseData(`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1,"model":"gpt-5.2","choices":[{"index":0,"delta":{"role":"assistant","content":"Hel"},"finish_reason":null}]}`) +
		sseData(`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1,"model":"gpt-5.2","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":null}],"surprise_field":true}`) +
		sseData(`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1,"model":"gpt-5.2","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`) +
		sseData(`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1,"model":"gpt-5.2","choices":[],"usage":{"prompt_tokens":9,"completion_tokens":2,"total_tokens":11}}`) +
		"data: [DONE]\n\n"

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	})

	ch, err := c.GenerateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.UserMessage("hi")},
	})
	require.NoError(t, err)

	var results []ai.StreamResult
	for res := range ch {
		require.NoError(t, res.Err)
		results = append(results, res)
	}

	// Two text deltas and the terminal chunk. The empty-delta finish
	// chunk and the usage-only chunk surface nothing of their own.
	require.Len(t, results, 3)

	var text string
	for _, res := range results[:2] {
		require.NotNil(t, res.Chunk.Delta.Part)
		require.Equal(t, ai.PartTypeText, res.Chunk.Delta.Part.Type)
		assert.Equal(t, ai.FinishReason(""), res.Chunk.FinishReason)
		text += res.Chunk.Delta.Part.Text
	}
	assert.Equal(t, "Hello", text)

	last := results[2].Chunk
	assert.Equal(t, "chatcmpl-1", last.ID)
	assert.Equal(t, ai.FinishStop, last.FinishReason)
	require.NotNil(t, last.Usage)
	assert.Equal(t, 9, last.Usage.PromptTokens)
	assert.Equal(t, 2, last.Usage.CompletionTokens)
	assert.Equal(t, 11, last.Usage.TotalTokens)
}

func TestGenerateStreamHTTPErrorBecomesErrItem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	})

	ch, err := c.GenerateStream(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.UserMessage("hi")},
	})
	require.NoError(t, err)

	var results []ai.StreamResult
	for res := range ch {
		results = append(results, res)
	}
	require.Len(t, results, 1)

	var authErr *ai.AuthenticationError
	require.ErrorAs(t, results[0].Err, &authErr)
	assert.Equal(t, "openai", authErr.Provider)
}

func TestGenerateEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-5.2","choices":[],"usage":{"prompt_tokens":3,"completion_tokens":0,"total_tokens":3}}`))
	})

	_, err := c.Generate(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.UserMessage("hi")},
	})

	var serErr *ai.SerializationError
	require.ErrorAs(t, err, &serErr)
	assert.Contains(t, serErr.Message, "no choices")
}
