// Copyright (c) the luagent authors. All rights reserved.

package agent

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrAgent is the base error for agent-related failures.
	ErrAgent = errors.New("agent error")

	// ErrConfiguration indicates a missing or invalid construction-time
	// setting (no model, no client, no resolvable credential).
	ErrConfiguration = fmt.Errorf("%w: configuration", ErrAgent)

	// ErrExecution indicates a runtime failure during a run.
	ErrExecution = fmt.Errorf("%w: execution", ErrAgent)

	// ErrOutputValidation indicates the structured payload failed schema
	// validation, or the model terminated without calling the output tool.
	ErrOutputValidation = fmt.Errorf("%w: output validation", ErrAgent)

	// ErrIterationLimit indicates the run loop exceeded its iteration bound
	// without terminating.
	ErrIterationLimit = fmt.Errorf("%w: iteration limit", ErrAgent)

	// ErrService is the base error for backend service failures.
	ErrService = errors.New("service error")

	// ErrAuth indicates an authentication or authorization failure.
	ErrAuth = fmt.Errorf("%w: authentication", ErrService)

	// ErrInvalidRequest indicates the request was malformed or invalid.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrService)

	// ErrInvalidResponse indicates the service returned an unexpected response.
	ErrInvalidResponse = fmt.Errorf("%w: invalid response", ErrService)

	// ErrTool is the base error for tool-related failures. Tool failures are
	// absorbed by the registry and surfaced to the model as conversation
	// content; they never propagate out of a run.
	ErrTool = errors.New("tool error")

	// ErrToolExecution indicates a failure during tool invocation.
	ErrToolExecution = fmt.Errorf("%w: execution", ErrTool)

	// ErrToolNotFound indicates the model referenced an unregistered tool.
	ErrToolNotFound = fmt.Errorf("%w: not found", ErrTool)
)

// ServiceError provides rich context for backend service failures.
// Use errors.As to extract it from a wrapped error chain.
type ServiceError struct {
	StatusCode int
	Message    string
	Code       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("service error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("service error %d: %s", e.StatusCode, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ToolError provides context for tool invocation failures.
type ToolError struct {
	ToolName string
	Message  string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q: %s", e.ToolName, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Err }
