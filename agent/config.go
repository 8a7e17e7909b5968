// Package agent drives multi-step, tool-augmented conversations against a
// Provider. Generate returns the finished transcript in one call; Stream
// yields each chunk as it arrives. Both append tool results between steps
// and stop when the configured RunUntil strategy says so.
package agent

import (
	"context"
	"encoding/json"

	ai "github.com/agentkit-go/agentkit"
	"github.com/agentkit-go/agentkit/tool"
)

// ToolExecutor dispatches model-issued tool calls. *tool.BoundRouter[S]
// satisfies it for any state type.
type ToolExecutor interface {
	Definitions() []ai.ToolDefinition
	Execute(ctx context.Context, name string, input json.RawMessage) tool.Outcome
}

// Config describes one loop invocation. Build it fluently, then pass it to
// Generate or Stream. A Config is not safe for concurrent mutation but may
// be reused across sequential invocations.
type Config struct {
	provider ai.Provider
	messages []ai.Message
	settings ai.GenerationSettings
	tools    ToolExecutor
	defs     []ai.ToolDefinition
	runUntil RunUntil
	parallel bool
}

// New creates a Config for the given provider. The default termination
// strategy is MaxSteps(1).
func New(provider ai.Provider) *Config {
	return &Config{provider: provider}
}

// Messages appends initial conversation messages.
func (c *Config) Messages(messages ...ai.Message) *Config {
	c.messages = append(c.messages, messages...)
	return c
}

// System appends a system message.
func (c *Config) System(text string) *Config {
	return c.Messages(ai.SystemMessage(text))
}

// User appends a user message.
func (c *Config) User(text string) *Config {
	return c.Messages(ai.UserMessage(text))
}

// Settings replaces the generation settings.
func (c *Config) Settings(settings ai.GenerationSettings) *Config {
	c.settings = settings
	return c
}

// Temperature sets the sampling temperature.
func (c *Config) Temperature(t float64) *Config {
	c.settings.Temperature = &t
	return c
}

// MaxTokens sets the per-step completion token ceiling.
func (c *Config) MaxTokens(n int) *Config {
	c.settings.MaxTokens = n
	return c
}

// Tools attaches a bound tool executor. Its definitions are captured here
// and sent with every request.
func (c *Config) Tools(executor ToolExecutor) *Config {
	c.tools = executor
	if executor != nil {
		c.defs = executor.Definitions()
	} else {
		c.defs = nil
	}
	return c
}

// RunUntil sets the termination strategy.
func (c *Config) RunUntil(strategy RunUntil) *Config {
	c.runUntil = strategy
	return c
}

// Parallel controls whether the tool calls of a single step execute
// concurrently. Results are appended in call order either way. Off by
// default.
func (c *Config) Parallel(on bool) *Config {
	c.parallel = on
	return c
}

func (c *Config) strategy() RunUntil {
	if c.runUntil != nil {
		return c.runUntil
	}
	return MaxSteps(1)
}

func (c *Config) validate() error {
	if c.provider == nil {
		return &ai.ValidationError{Field: "provider", Message: "provider is required"}
	}
	if len(c.messages) == 0 {
		return &ai.ValidationError{Field: "messages", Message: "at least one message is required"}
	}
	return nil
}
