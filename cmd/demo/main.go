// Demo wires a provider, a tool router, and the agent loop together,
// streaming the conversation to stdout. Set ANTHROPIC_API_KEY (or
// OPENAI_API_KEY) in the environment or a .env file.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/agentkit-go/agentkit"
	"github.com/agentkit-go/agentkit/agent"
	"github.com/agentkit-go/agentkit/provider/anthropic"
	"github.com/agentkit-go/agentkit/provider/openai"
	"github.com/agentkit-go/agentkit/retry"
	"github.com/agentkit-go/agentkit/tool"
)

type weatherInput struct {
	City string `json:"city" desc:"City name" required:"true"`
}

type weatherReport struct {
	City       string  `json:"city"`
	TempC      float64 `json:"tempC"`
	Conditions string  `json:"conditions"`
}

type convertInput struct {
	Celsius float64 `json:"celsius" desc:"Temperature in Celsius"`
}

// appState is the shared state injected into stateful tools.
type appState struct {
	startedAt time.Time
}

func main() {
	godotenv.Load()
	ctx := context.Background()

	var provider ai.Provider
	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		provider = anthropic.New(os.Getenv("ANTHROPIC_API_KEY"), anthropic.WithModel(anthropic.ClaudeSonnet45))
	case os.Getenv("OPENAI_API_KEY") != "":
		provider = openai.New(os.Getenv("OPENAI_API_KEY"))
	default:
		fmt.Fprintln(os.Stderr, "set ANTHROPIC_API_KEY or OPENAI_API_KEY")
		os.Exit(1)
	}
	provider = retry.Wrap(provider, retry.DefaultConfig())

	router := tool.NewRouter[*appState]().Add(
		tool.Func[*appState]("get_weather", "Get the current weather for a city",
			func(in weatherInput) weatherReport {
				return weatherReport{City: in.City, TempC: 18.5, Conditions: "partly cloudy"}
			}),
		tool.Func[*appState]("celsius_to_fahrenheit", "Convert a Celsius temperature to Fahrenheit",
			func(in convertInput) float64 {
				return in.Celsius*9/5 + 32
			}),
		tool.StateFunc[*appState]("uptime", "Seconds since this assistant session started",
			func(s *appState, _ struct{}) float64 {
				return time.Since(s.startedAt).Seconds()
			}),
		// No handler: the loop hands control back to us if the model
		// calls this.
		tool.Definition[*appState]("open_support_ticket", "Escalate the conversation to a human support agent", nil),
	)

	cfg := agent.New(provider).
		System("You are a concise weather assistant. Use the tools when helpful.").
		User("What's the weather in Lisbon, in Fahrenheit?").
		Tools(router.WithState(&appState{startedAt: time.Now()})).
		RunUntil(agent.FirstOf(agent.MaxSteps(6), agent.StopOnReason(ai.FinishStop))).
		MaxTokens(1024)

	for item := range agent.Stream(ctx, cfg) {
		if item.Err != nil {
			fmt.Fprintf(os.Stderr, "\nstream error: %v\n", item.Err)
			os.Exit(1)
		}
		chunk := item.Chunk
		if part := chunk.Chunk.Delta.Part; part != nil {
			switch part.Type {
			case ai.PartTypeText:
				fmt.Print(part.Text)
			case ai.PartTypeToolCall:
				fmt.Printf("\n[step %d] tool call: %s %s\n", chunk.Step, part.ToolCall.Name, part.ToolCall.Arguments)
			}
		}
		if chunk.Final && chunk.Chunk.Usage != nil {
			fmt.Printf("\n[step %d done: %s, %d in / %d out]\n",
				chunk.Step, chunk.Chunk.FinishReason,
				chunk.Chunk.Usage.PromptTokens, chunk.Chunk.Usage.CompletionTokens)
		}
	}
}
