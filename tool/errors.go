package tool

import (
	"errors"
	"fmt"
)

// ErrKind discriminates tool execution failures so the caller can branch
// on the failure class rather than parsing messages.
type ErrKind string

const (
	// KindInvalidInput means the tool's JSON input did not match the
	// handler's declared input type.
	KindInvalidInput ErrKind = "invalid_input"

	// KindState means the shared application state was missing or
	// unusable.
	KindState ErrKind = "state"

	// KindExecution means the handler's business logic failed.
	KindExecution ErrKind = "execution"

	// KindExternalService means a downstream service the handler called
	// failed.
	KindExternalService ErrKind = "external_service"

	// KindUnauthorized means the handler refused the call for
	// permission reasons.
	KindUnauthorized ErrKind = "unauthorized"

	// KindNotFound means a resource (or the tool itself) was not found.
	KindNotFound ErrKind = "not_found"
)

// ExecError is a tool execution failure scoped to a single call. It is
// converted into an IsError tool result by the agent loop rather than
// aborting the conversation.
type ExecError struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *ExecError) Error() string {
	switch e.Kind {
	case KindInvalidInput:
		return fmt.Sprintf("invalid input: %s", e.Message)
	case KindState:
		return fmt.Sprintf("state error: %s", e.Message)
	case KindExternalService:
		return fmt.Sprintf("external service error: %s", e.Message)
	case KindUnauthorized:
		return fmt.Sprintf("unauthorized: %s", e.Message)
	case KindNotFound:
		return fmt.Sprintf("not found: %s", e.Message)
	default:
		return fmt.Sprintf("execution error: %s", e.Message)
	}
}

func (e *ExecError) Unwrap() error { return e.Cause }

// InvalidInput creates an invalid-input execution error.
func InvalidInput(msg string) *ExecError {
	return &ExecError{Kind: KindInvalidInput, Message: msg}
}

// StateErr creates a state execution error.
func StateErr(msg string) *ExecError {
	return &ExecError{Kind: KindState, Message: msg}
}

// ExecutionErr creates a generic execution error.
func ExecutionErr(msg string) *ExecError {
	return &ExecError{Kind: KindExecution, Message: msg}
}

// ExternalServiceErr creates an external-service execution error.
func ExternalServiceErr(service, msg string) *ExecError {
	return &ExecError{Kind: KindExternalService, Message: service + ": " + msg}
}

// Unauthorized creates an unauthorized execution error.
func Unauthorized(msg string) *ExecError {
	return &ExecError{Kind: KindUnauthorized, Message: msg}
}

// NotFoundErr creates a not-found execution error.
func NotFoundErr(msg string) *ExecError {
	return &ExecError{Kind: KindNotFound, Message: msg}
}

// AsExecError converts an arbitrary handler error into an *ExecError,
// preserving the kind when the handler already returned one.
func AsExecError(err error) *ExecError {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee
	}
	return &ExecError{Kind: KindExecution, Message: err.Error(), Cause: err}
}

// ErrAlreadyRegistered is returned when registering a duplicate tool name.
type ErrAlreadyRegistered struct {
	Name string
}

func (e *ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}
