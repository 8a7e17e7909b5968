// Package openai implements ai.Provider on the OpenAI Chat Completions
// API via the official SDK.
package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	ai "github.com/agentkit-go/agentkit"
)

// Client implements ai.Provider against the OpenAI Chat Completions API.
type Client struct {
	client *openai.Client
	model  ChatModel
}

// ClientOption configures the client.
type ClientOption func(*Client, *[]option.RequestOption)

// WithModel sets the model used for requests.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client, _ *[]option.RequestOption) {
		c.model = model
	}
}

// WithRequestOption forwards an option to the underlying SDK client.
func WithRequestOption(opt option.RequestOption) ClientOption {
	return func(_ *Client, sdkOpts *[]option.RequestOption) {
		*sdkOpts = append(*sdkOpts, opt)
	}
}

// New creates a client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{model: DefaultChatModel}
	sdkOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	for _, opt := range opts {
		opt(c, &sdkOpts)
	}
	client := openai.NewClient(sdkOpts...)
	c.client = &client
	return c
}

func (c *Client) Name() string                 { return "openai" }
func (c *Client) Model() string                { return c.model.String() }
func (c *Client) SupportsTools() bool          { return true }
func (c *Client) SupportsVision() bool         { return true }
func (c *Client) SupportsSystemMessages() bool { return true }
func (c *Client) MaxTokens() int               { return c.model.ContextWindow() }

// Validate checks the request against this provider's capabilities
// without touching the network.
func (c *Client) Validate(req ai.ChatRequest) error {
	return ai.ValidateRequest(c, req)
}

// Generate sends one non-streaming chat completion call.
func (c *Client) Generate(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}

	params, err := c.buildParams(req, false)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, mapErr(c.model.String(), err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ai.SerializationError{Message: "completion response contained no choices"}
	}

	choice := resp.Choices[0]
	usage := ai.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return &ai.ChatResponse{
		ID:           resp.ID,
		Message:      messageFromCompletion(choice.Message),
		FinishReason: mapFinishReason(string(choice.FinishReason)),
		Usage:        &usage,
	}, nil
}

// GenerateStream opens one streaming call and normalizes the chunks.
// Text deltas are forwarded as they arrive; tool calls are emitted once
// the stream completes, with arguments fully accumulated, followed by the
// terminal chunk carrying the finish reason and usage.
func (c *Client) GenerateStream(ctx context.Context, req ai.ChatRequest) (<-chan ai.StreamResult, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}

	params, err := c.buildParams(req, true)
	if err != nil {
		return nil, err
	}
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	out := make(chan ai.StreamResult)

	go func() {
		defer close(out)

		var acc openai.ChatCompletionAccumulator
		id := ""

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if id == "" {
				id = chunk.ID
			}

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				part := ai.TextPart(chunk.Choices[0].Delta.Content)
				sc := &ai.ChatStreamChunk{
					ID:    id,
					Delta: ai.Delta{Role: ai.RoleAssistant, Part: &part},
				}
				if !sendResult(ctx, out, ai.StreamResult{Chunk: sc}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			sendResult(ctx, out, ai.StreamResult{Err: mapErr(c.model.String(), err)})
			return
		}

		if len(acc.Choices) == 0 {
			return
		}
		choice := acc.Choices[0]

		for _, tc := range choice.Message.ToolCalls {
			part := ai.ToolCallPart(ai.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: rawArguments(tc.Function.Arguments),
			})
			sc := &ai.ChatStreamChunk{
				ID:    id,
				Delta: ai.Delta{Role: ai.RoleAssistant, Part: &part},
			}
			if !sendResult(ctx, out, ai.StreamResult{Chunk: sc}) {
				return
			}
		}

		usage := ai.Usage{
			PromptTokens:     int(acc.Usage.PromptTokens),
			CompletionTokens: int(acc.Usage.CompletionTokens),
			TotalTokens:      int(acc.Usage.TotalTokens),
		}
		sendResult(ctx, out, ai.StreamResult{Chunk: &ai.ChatStreamChunk{
			ID:           id,
			Delta:        ai.Delta{Role: ai.RoleAssistant},
			FinishReason: mapFinishReason(string(choice.FinishReason)),
			Usage:        &usage,
		}})
	}()

	return out, nil
}

func (c *Client) buildParams(req ai.ChatRequest, streaming bool) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model.String(),
		Messages: convertMessages(req.Messages),
	}
	if streaming {
		params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		}
	}
	if req.Settings.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.Settings.MaxTokens))
	}
	if req.Settings.Temperature != nil {
		params.Temperature = openai.Float(*req.Settings.Temperature)
	}
	if req.Settings.TopP != nil {
		params.TopP = openai.Float(*req.Settings.TopP)
	}
	if req.Settings.FrequencyPenalty != nil {
		params.FrequencyPenalty = openai.Float(*req.Settings.FrequencyPenalty)
	}
	if req.Settings.PresencePenalty != nil {
		params.PresencePenalty = openai.Float(*req.Settings.PresencePenalty)
	}
	if req.Settings.Seed != nil {
		params.Seed = openai.Int(*req.Settings.Seed)
	}
	if len(req.Settings.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: req.Settings.StopSequences,
		}
	}
	if len(req.Tools) > 0 {
		tools, err := convertTools(req.Tools)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		params.Tools = tools
	}
	return params, nil
}

func sendResult(ctx context.Context, out chan<- ai.StreamResult, res ai.StreamResult) bool {
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}

var _ ai.Provider = (*Client)(nil)
