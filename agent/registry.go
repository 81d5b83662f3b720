// Copyright (c) the luagent authors. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// OutputToolName is the name of the synthetic tool registered when an output
// schema is configured. The model is instructed to call it with the final
// structured answer; the run loop intercepts the call instead of executing it.
const OutputToolName = "final_answer"

const outputToolDescription = "Provide the final structured answer. " +
	"Call this function exactly once with the complete answer when you are done."

// toolRegistry holds the agent's named tools plus the synthetic
// structured-output tool, if configured.
type toolRegistry struct {
	tools map[string]*Tool
}

func newToolRegistry() *toolRegistry {
	return &toolRegistry{tools: make(map[string]*Tool)}
}

// register adds a tool. A tool without a handler is rejected: the registry is
// useless without one. Names must be unique; re-registering a name fails.
func (r *toolRegistry) register(t *Tool) error {
	if t == nil || t.fn == nil {
		return fmt.Errorf("%w: tool registration requires a handler", ErrConfiguration)
	}
	if t.name == "" {
		return fmt.Errorf("%w: tool registration requires a name", ErrConfiguration)
	}
	if _, exists := r.tools[t.name]; exists {
		return fmt.Errorf("%w: duplicate tool name %q", ErrConfiguration, t.name)
	}
	r.tools[t.name] = t
	return nil
}

// registerOutputTool adds the synthetic structured-output tool whose
// parameter schema is the configured output schema. Its handler echoes the
// raw arguments; the run loop normally intercepts the call before the handler
// is ever reached.
func (r *toolRegistry) registerOutputTool(schema *SchemaNode) error {
	if _, exists := r.tools[OutputToolName]; exists {
		return fmt.Errorf("%w: tool name %q is reserved for structured output", ErrConfiguration, OutputToolName)
	}
	return r.register(newRawTool(OutputToolName, outputToolDescription, schema,
		func(_ context.Context, _ *RunContext, args json.RawMessage) (any, error) {
			return string(args), nil
		},
	))
}

// specs produces the wire-format tool list for every registered tool.
// The list is sorted by name for determinism, but callers must not depend on
// the ordering.
func (r *toolRegistry) specs() []ToolSpec {
	if len(r.tools) == 0 {
		return nil
	}
	out := make([]ToolSpec, 0, len(r.tools))
	for _, name := range slices.Sorted(maps.Keys(r.tools)) {
		t := r.tools[name]
		out = append(out, ToolSpec{
			Type: "function",
			Function: FunctionSpec{
				Name:        t.name,
				Description: t.description,
				Parameters:  t.parameters,
			},
		})
	}
	return out
}

// execute runs one tool call and returns the result string destined for the
// tool-result message. Failures never escape: an unknown tool or a handler
// error is encoded as an {"error": ...} JSON string for the model to read.
func (r *toolRegistry) execute(ctx context.Context, rc *RunContext, call ToolCall) string {
	name := call.Function.Name
	t, ok := r.tools[name]
	if !ok {
		notFound := &ToolError{ToolName: name, Message: "not found", Err: ErrToolNotFound}
		slog.WarnContext(ctx, "unknown tool called", "tool", name, "error", notFound)
		return encodeToolError(fmt.Sprintf("Tool '%s' not found", name))
	}

	result, err := invokeTool(ctx, rc, t, json.RawMessage(call.Function.Arguments))
	if err != nil {
		slog.WarnContext(ctx, "tool invocation error", "tool", name, "error", err)
		return encodeToolError("Tool execution failed: " + err.Error())
	}

	// A string result is returned verbatim; everything else is JSON-encoded.
	if s, ok := result.(string); ok {
		return s
	}
	b, err := json.Marshal(result)
	if err != nil {
		slog.WarnContext(ctx, "tool result not encodable", "tool", name, "error", err)
		return encodeToolError("Tool execution failed: " + err.Error())
	}
	return string(b)
}

// invokeTool calls the handler, converting a panic into a ToolError so a
// misbehaving handler cannot crash the run loop.
func invokeTool(ctx context.Context, rc *RunContext, t *Tool, args json.RawMessage) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ToolError{
				ToolName: t.name,
				Message:  fmt.Sprintf("panic: %v", p),
				Err:      ErrToolExecution,
			}
		}
	}()
	return t.fn(ctx, rc, args)
}

func encodeToolError(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}
