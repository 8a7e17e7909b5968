package tool

import (
	"context"
	"encoding/json"
	"fmt"

	ai "github.com/agentkit-go/agentkit"
)

// Handler is the type-erased execution shape all registrations reduce to.
// S is the shared application state injected into every call.
type Handler[S any] func(ctx context.Context, state S, input json.RawMessage) (json.RawMessage, error)

// Registration pairs a tool definition with an optional handler. A nil
// Handler registers a definition-only tool: the model can see and call it
// but execution is deferred to the application.
type Registration[S any] struct {
	Def     ai.ToolDefinition
	Handler Handler[S]
}

// Definition registers a tool the model can call but the router will not
// execute. Useful for human-in-the-loop or externally dispatched tools.
func Definition[S any](name, description string, parameters json.RawMessage) Registration[S] {
	if parameters == nil {
		parameters = ai.EmptySchema
	}
	return Registration[S]{Def: ai.ToolDefinition{
		Name:        name,
		Description: description,
		Parameters:  parameters,
	}}
}

// Raw registers a handler that works directly with JSON input and output.
// The schema must be supplied by the caller.
func Raw[S any](name, description string, parameters json.RawMessage, fn Handler[S]) Registration[S] {
	if parameters == nil {
		parameters = ai.EmptySchema
	}
	return Registration[S]{
		Def: ai.ToolDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
		Handler: fn,
	}
}

// Func registers an infallible handler that ignores state. The input
// schema is derived from I by reflection at registration time.
func Func[S, I, O any](name, description string, fn func(I) O) Registration[S] {
	return wrap[S, I](name, description, func(_ context.Context, _ S, in I) (O, error) {
		return fn(in), nil
	})
}

// FuncErr registers a fallible handler that ignores state.
func FuncErr[S, I, O any](name, description string, fn func(I) (O, error)) Registration[S] {
	return wrap[S, I](name, description, func(_ context.Context, _ S, in I) (O, error) {
		return fn(in)
	})
}

// StateFunc registers an infallible handler that receives the shared state.
func StateFunc[S, I, O any](name, description string, fn func(S, I) O) Registration[S] {
	return wrap[S, I](name, description, func(_ context.Context, state S, in I) (O, error) {
		return fn(state, in), nil
	})
}

// StateFuncErr registers a fallible handler that receives the shared state.
func StateFuncErr[S, I, O any](name, description string, fn func(S, I) (O, error)) Registration[S] {
	return wrap[S, I](name, description, fn2ctx(fn))
}

func fn2ctx[S, I, O any](fn func(S, I) (O, error)) func(context.Context, S, I) (O, error) {
	return func(_ context.Context, state S, in I) (O, error) {
		return fn(state, in)
	}
}

func wrap[S, I, O any](name, description string, fn func(context.Context, S, I) (O, error)) Registration[S] {
	schema := ai.MustSchemaFor[I]()
	handler := func(ctx context.Context, state S, input json.RawMessage) (json.RawMessage, error) {
		var in I
		if len(input) > 0 {
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, InvalidInput(fmt.Sprintf("tool %s: %v", name, err))
			}
		}
		out, err := fn(ctx, state, in)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(out)
		if err != nil {
			return nil, ExecutionErr(fmt.Sprintf("tool %s: encode result: %v", name, err))
		}
		return raw, nil
	}
	return Registration[S]{
		Def: ai.ToolDefinition{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: handler,
	}
}
