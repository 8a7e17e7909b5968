package retry

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/agentkit-go/agentkit"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(5), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &ai.APIError{Provider: "test", Status: 503, Message: "unavailable"}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := &ai.AuthenticationError{Provider: "test", Message: "bad key"}

	_, err := Do(context.Background(), fastConfig(5), func() (string, error) {
		calls++
		return "", permanent
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, permanent)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(3), func() (int, error) {
		calls++
		return 0, &ai.APIError{Provider: "test", Status: 500, Message: "boom"}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}
	_, err := Do(ctx, cfg, func() (int, error) {
		return 0, &ai.APIError{Provider: "test", Status: 500, Message: "boom"}
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoStreamRetriesEstablishment(t *testing.T) {
	calls := 0
	ch, err := DoStream(context.Background(), fastConfig(4), func() (<-chan int, error) {
		calls++
		if calls < 2 {
			return nil, &ai.RateLimitError{Provider: "test", Message: "slow down"}
		}
		out := make(chan int)
		close(out)
		return out, nil
	})

	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, 2, calls)
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(context.Canceled))
	assert.False(t, Retryable(context.DeadlineExceeded))
	assert.False(t, Retryable(errors.New("opaque")))
	assert.False(t, Retryable(&ai.AuthenticationError{Provider: "p", Message: "m"}))
	assert.False(t, Retryable(&ai.ValidationError{Field: "f", Message: "m"}))

	assert.True(t, Retryable(&ai.RateLimitError{Provider: "p", Message: "m"}))
	assert.True(t, Retryable(&ai.APIError{Provider: "p", Status: 502, Message: "m"}))
	assert.True(t, Retryable(io.ErrUnexpectedEOF))
}

func TestBackoffHonorsRetryAfter(t *testing.T) {
	cfg := fastConfig(3)
	err := &ai.RateLimitError{Provider: "p", Message: "m", RetryDelay: 50 * time.Millisecond}
	assert.GreaterOrEqual(t, backoff(cfg, 0, err), 50*time.Millisecond)
}

func TestDelayCapsAtMax(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: 4 * time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, cfg.Delay(0))
	assert.Equal(t, 2*time.Second, cfg.Delay(1))
	assert.Equal(t, 4*time.Second, cfg.Delay(5))
}

type flakyProvider struct {
	failures int
	calls    int
}

func (p *flakyProvider) Name() string                 { return "flaky" }
func (p *flakyProvider) Model() string                { return "flaky-1" }
func (p *flakyProvider) SupportsTools() bool          { return true }
func (p *flakyProvider) SupportsVision() bool         { return false }
func (p *flakyProvider) SupportsSystemMessages() bool { return true }
func (p *flakyProvider) MaxTokens() int               { return 0 }

func (p *flakyProvider) Validate(req ai.ChatRequest) error {
	return ai.ValidateRequest(p, req)
}

func (p *flakyProvider) Generate(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, &ai.APIError{Provider: "flaky", Status: 503, Message: "unavailable"}
	}
	return &ai.ChatResponse{
		ID:           "r1",
		Message:      ai.AssistantMessage("recovered"),
		FinishReason: ai.FinishStop,
	}, nil
}

func (p *flakyProvider) GenerateStream(_ context.Context, _ ai.ChatRequest) (<-chan ai.StreamResult, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, &ai.APIError{Provider: "flaky", Status: 503, Message: "unavailable"}
	}
	out := make(chan ai.StreamResult)
	close(out)
	return out, nil
}

func TestWrapRetriesGenerate(t *testing.T) {
	inner := &flakyProvider{failures: 2}
	p := Wrap(inner, fastConfig(5))

	resp, err := p.Generate(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.UserMessage("hi")},
	})

	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Message.Text())
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, "flaky", p.Name())
}
