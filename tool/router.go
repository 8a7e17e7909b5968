package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	ai "github.com/agentkit-go/agentkit"
)

// Status classifies the outcome of routing a tool call.
type Status int

const (
	// Executed means a handler ran. Check Outcome.Err for the result.
	Executed Status = iota

	// NoHandler means the tool is registered definition-only. The caller
	// decides what to do with the call.
	NoHandler

	// NotFound means no tool with that name is registered at all.
	NotFound
)

// Outcome is the result of a single routed tool call.
type Outcome struct {
	Status Status

	// Result holds the handler's JSON output when Status is Executed and
	// Err is nil.
	Result json.RawMessage

	// Err holds the handler's failure when Status is Executed, or the
	// not-found error when Status is NotFound.
	Err error
}

type entry[S any] struct {
	def     ai.ToolDefinition
	handler Handler[S]
	mu      *sync.Mutex
}

// Router collects tool registrations before state is available. It is the
// build phase: Add registrations, then call WithState to produce the
// executable BoundRouter. A Router must not be used after WithState.
type Router[S any] struct {
	order   []string
	entries map[string]*entry[S]
}

// NewRouter creates an empty router.
func NewRouter[S any]() *Router[S] {
	return &Router[S]{entries: make(map[string]*entry[S])}
}

// Add registers tools, panicking on a duplicate name. It returns the
// router for chaining.
func (r *Router[S]) Add(regs ...Registration[S]) *Router[S] {
	for _, reg := range regs {
		if err := r.Register(reg); err != nil {
			panic(err)
		}
	}
	return r
}

// Register registers a single tool, returning *ErrAlreadyRegistered on a
// duplicate name.
func (r *Router[S]) Register(reg Registration[S]) error {
	name := reg.Def.Name
	if name == "" {
		return &ExecError{Kind: KindInvalidInput, Message: "tool name must not be empty"}
	}
	if _, ok := r.entries[name]; ok {
		return &ErrAlreadyRegistered{Name: name}
	}
	def := reg.Def
	if def.Parameters == nil {
		def.Parameters = ai.EmptySchema
	}
	r.entries[name] = &entry[S]{def: def, handler: reg.Handler, mu: &sync.Mutex{}}
	r.order = append(r.order, name)
	return nil
}

// WithState binds the shared state and produces the executable router.
// The state value is copied into every handler invocation, so use a
// pointer or handle type when handlers need to share mutations.
func (r *Router[S]) WithState(state S) *BoundRouter[S] {
	br := &BoundRouter[S]{
		state:   state,
		order:   r.order,
		entries: r.entries,
	}
	r.order = nil
	r.entries = nil
	return br
}

// BoundRouter executes tool calls against a fixed registration set and a
// bound state value. It is safe for concurrent use; calls to the same tool
// are serialized, calls to different tools run independently.
type BoundRouter[S any] struct {
	state   S
	order   []string
	entries map[string]*entry[S]
}

// Definitions returns the registered tool definitions in registration
// order, definition-only tools included.
func (b *BoundRouter[S]) Definitions() []ai.ToolDefinition {
	defs := make([]ai.ToolDefinition, 0, len(b.order))
	for _, name := range b.order {
		defs = append(defs, b.entries[name].def)
	}
	return defs
}

// Execute routes a single tool call by name.
func (b *BoundRouter[S]) Execute(ctx context.Context, name string, input json.RawMessage) Outcome {
	e, ok := b.entries[name]
	if !ok {
		return Outcome{
			Status: NotFound,
			Err:    NotFoundErr(fmt.Sprintf("Tool '%s' not found", name)),
		}
	}
	if e.handler == nil {
		return Outcome{Status: NoHandler}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	result, err := e.handler(ctx, b.state, input)
	if err != nil {
		return Outcome{Status: Executed, Err: AsExecError(err)}
	}
	return Outcome{Status: Executed, Result: result}
}
