package retry

import (
	"context"

	ai "github.com/agentkit-go/agentkit"
)

// Wrap returns a Provider that retries Generate calls and stream
// establishment according to cfg. Chunks of an established stream are
// never retried.
func Wrap(p ai.Provider, cfg Config) ai.Provider {
	return &provider{inner: p, cfg: cfg}
}

type provider struct {
	inner ai.Provider
	cfg   Config
}

func (p *provider) Name() string                 { return p.inner.Name() }
func (p *provider) Model() string                { return p.inner.Model() }
func (p *provider) SupportsTools() bool          { return p.inner.SupportsTools() }
func (p *provider) SupportsVision() bool         { return p.inner.SupportsVision() }
func (p *provider) SupportsSystemMessages() bool { return p.inner.SupportsSystemMessages() }
func (p *provider) MaxTokens() int               { return p.inner.MaxTokens() }

func (p *provider) Validate(req ai.ChatRequest) error {
	return p.inner.Validate(req)
}

func (p *provider) Generate(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	return Do(ctx, p.cfg, func() (*ai.ChatResponse, error) {
		return p.inner.Generate(ctx, req)
	})
}

func (p *provider) GenerateStream(ctx context.Context, req ai.ChatRequest) (<-chan ai.StreamResult, error) {
	return DoStream(ctx, p.cfg, func() (<-chan ai.StreamResult, error) {
		return p.inner.GenerateStream(ctx, req)
	})
}

var _ ai.Provider = (*provider)(nil)
