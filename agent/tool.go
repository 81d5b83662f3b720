// Copyright (c) the luagent authors. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
)

// Tool defines a callable function exposed to the model via function calling.
// Handlers run inline on the loop's call stack; a handler error becomes a
// tool-result message for the model rather than a run failure.
type Tool struct {
	name        string
	description string
	parameters  *SchemaNode
	fn          func(ctx context.Context, rc *RunContext, args json.RawMessage) (any, error)
}

// Name returns the function name as exposed to the model.
func (t *Tool) Name() string { return t.name }

// Description returns a human-readable description for the model.
func (t *Tool) Description() string { return t.description }

// Parameters returns the schema describing the function's input.
func (t *Tool) Parameters() *SchemaNode { return t.parameters }

// NewTool creates a [Tool] whose handler receives the call arguments parsed
// into a generic JSON object.
func NewTool(name, description string, parameters *SchemaNode, fn func(ctx context.Context, rc *RunContext, args map[string]any) (any, error)) *Tool {
	if fn == nil {
		return &Tool{name: name, description: description, parameters: parameters}
	}
	wrapped := func(ctx context.Context, rc *RunContext, raw json.RawMessage) (any, error) {
		args := map[string]any{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, &ToolError{
					ToolName: name,
					Message:  "invalid arguments: " + err.Error(),
					Err:      ErrToolExecution,
				}
			}
		}
		return fn(ctx, rc, args)
	}
	return &Tool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          wrapped,
	}
}

// NewTypedTool creates a [Tool] that automatically generates the parameter
// schema from the Args type parameter and handles JSON deserialization.
//
// The Args type should be a struct with json tags. Use the `jsonschema`
// struct tag for additional schema metadata:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name,required"`
//	    Unit     string `json:"unit"     jsonschema:"description=Temperature unit,enum=celsius|fahrenheit"`
//	}
func NewTypedTool[Args any](name, description string, fn func(ctx context.Context, rc *RunContext, args Args) (any, error)) *Tool {
	schema := SchemaFor[Args]()
	if fn == nil {
		return &Tool{name: name, description: description, parameters: schema}
	}

	wrapped := func(ctx context.Context, rc *RunContext, raw json.RawMessage) (any, error) {
		var args Args
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, &ToolError{
					ToolName: name,
					Message:  "invalid arguments: " + err.Error(),
					Err:      ErrToolExecution,
				}
			}
		}
		return fn(ctx, rc, args)
	}

	return &Tool{
		name:        name,
		description: description,
		parameters:  schema,
		fn:          wrapped,
	}
}

// newRawTool creates a Tool whose handler sees the raw argument string.
// Used internally for the structured-output tool, which echoes its arguments.
func newRawTool(name, description string, parameters *SchemaNode, fn func(ctx context.Context, rc *RunContext, args json.RawMessage) (any, error)) *Tool {
	return &Tool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}
