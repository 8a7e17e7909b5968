// Package anthropic implements ai.Provider on the Anthropic Messages API
// via the official SDK. HTTP transport, auth, and wire-level retries live
// in the SDK; this package only translates between the canonical message
// model and the Anthropic wire shapes.
package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	ai "github.com/agentkit-go/agentkit"
)

const defaultMaxTokens = 4096

// Client implements ai.Provider against the Anthropic Messages API.
type Client struct {
	client *anthropic.Client
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
	client := anthropic.NewClient(sdkOpts...)
	c.client = &client
	return c
}

func (c *Client) Name() string                 { return "anthropic" }
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

// Generate sends one non-streaming Messages API call.
func (c *Client) Generate(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}

	params, err := c.buildParams(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapErr(c.model.String(), err)
	}

	msg := messageFromBlocks(resp.Content)
	usage := ai.Usage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
		TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}
	return &ai.ChatResponse{
		ID:           resp.ID,
		Message:      msg,
		FinishReason: mapStopReason(string(resp.StopReason)),
		Usage:        &usage,
	}, nil
}

func (c *Client) buildParams(req ai.ChatRequest) (anthropic.MessageNewParams, error) {
	maxTokens := int64(defaultMaxTokens)
	if req.Settings.MaxTokens > 0 {
		maxTokens = int64(req.Settings.MaxTokens)
	}

	msgs, system, err := convertMessages(req.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model.String()),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Settings.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Settings.Temperature)
	}
	if req.Settings.TopP != nil {
		params.TopP = anthropic.Float(*req.Settings.TopP)
	}
	if req.Settings.TopK > 0 {
		params.TopK = anthropic.Int(int64(req.Settings.TopK))
	}
	if len(req.Settings.StopSequences) > 0 {
		params.StopSequences = req.Settings.StopSequences
	}
	if len(req.Tools) > 0 {
		tools, err := convertTools(req.Tools)
		if err != nil {
			return anthropic.MessageNewParams{}, err
		}
		params.Tools = tools
	}
	return params, nil
}

var _ ai.Provider = (*Client)(nil)
