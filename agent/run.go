// Copyright (c) the luagent authors. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DefaultMaxIterations bounds the run loop when the caller does not override
// it.
const DefaultMaxIterations = 10

// RunResult is the terminal outcome of one run.
type RunResult struct {
	// Data is the assistant's final text, or the validated structured object
	// (map[string]any) when an output schema is configured.
	Data any

	// Messages is the full conversation accumulated by the run, including
	// the system message, tool calls, and tool results.
	Messages []Message

	// Raw is the provider-specific representation of the final response.
	Raw any

	// Usage is the token consumption summed across all iterations.
	Usage UsageDetails
}

// RunOption configures a single [Agent.Run] call.
type RunOption func(*runConfig)

type runConfig struct {
	deps          map[string]any
	history       []Message
	maxIterations int
	stream        bool
	onChunk       func(StreamChunk)
}

// WithDeps supplies caller-owned dependencies to tool handlers via
// [RunContext.Deps]. The reserved "api_key" entry, if a string, is used as
// the request credential when neither the agent nor the client has one.
func WithDeps(deps map[string]any) RunOption {
	return func(c *runConfig) { c.deps = deps }
}

// WithHistory seeds the conversation with prior messages. The slice is
// deep-copied before the run mutates anything.
func WithHistory(history []Message) RunOption {
	return func(c *runConfig) { c.history = history }
}

// WithMaxIterations overrides the iteration bound (default 10).
func WithMaxIterations(n int) RunOption {
	return func(c *runConfig) { c.maxIterations = n }
}

// WithStreaming enables streaming for this run. onChunk, if non-nil, is
// invoked synchronously for every increment as the response is reassembled;
// it must return before the next chunk is processed.
func WithStreaming(onChunk func(StreamChunk)) RunOption {
	return func(c *runConfig) {
		c.stream = true
		c.onChunk = onChunk
	}
}

// Run executes the agent loop: send the conversation to the model, execute
// any requested tool calls, and repeat until the model terminates or the
// iteration bound is reached.
//
// Tool failures are absorbed into the conversation and never returned as an
// error. Transport failures, structured-output validation failures, and the
// iteration bound terminate the run with an error.
func (a *Agent) Run(ctx context.Context, prompt string, opts ...RunOption) (*RunResult, error) {
	cfg := &runConfig{maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxIterations <= 0 {
		cfg.maxIterations = DefaultMaxIterations
	}

	rc := &RunContext{Deps: cfg.deps}

	system, err := a.systemPromptFor(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: system prompt: %w", ErrExecution, err)
	}

	messages := CloneMessages(cfg.history)
	if system != "" {
		messages = append([]Message{NewSystemMessage(system)}, messages...)
	}
	messages = append(messages, NewUserMessage(prompt))
	rc.Messages = messages

	// Credential priority: agent config, then run deps, then whatever the
	// client resolves (typically the environment).
	apiKey := a.apiKey
	if apiKey == "" {
		apiKey = rc.depString(depsAPIKeyField)
	}

	specs := a.registry.specs()
	var usage UsageDetails

	for iteration := 0; iteration < cfg.maxIterations; iteration++ {
		req := &ChatRequest{
			Model:       a.model,
			Messages:    messages,
			Temperature: a.temperature,
			MaxTokens:   a.maxTokens,
			Tools:       specs,
			Stream:      cfg.stream,
			APIKey:      apiKey,
		}

		var resp *ChatResponse
		if cfg.stream {
			resp, err = a.client.StreamComplete(ctx, req, cfg.onChunk)
		} else {
			resp, err = a.client.Complete(ctx, req)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecution, err)
		}
		usage.Add(resp.Usage)

		msg := resp.Message
		if msg.Role == "" {
			msg.Role = RoleAssistant
		}
		messages = append(messages, msg)
		rc.Messages = messages

		slog.DebugContext(ctx, "agent iteration",
			"agent_id", a.id,
			"agent_name", a.name,
			"iteration", iteration,
			"tool_calls", len(msg.ToolCalls),
			"finish_reason", resp.FinishReason,
		)

		if len(msg.ToolCalls) == 0 {
			if a.outputSchema != nil {
				return nil, fmt.Errorf("%w: model terminated with plain content instead of calling the %q tool", ErrOutputValidation, OutputToolName)
			}
			return &RunResult{Data: msg.Content, Messages: messages, Raw: resp.Raw, Usage: usage}, nil
		}

		// Structured-output interception: if the batch contains the output
		// tool, validate and return immediately. No tool-result message is
		// appended for it, and no other call in the batch executes.
		if a.outputSchema != nil {
			if call, ok := findOutputCall(msg.ToolCalls); ok {
				data, err := a.decodeOutput(call.Function.Arguments)
				if err != nil {
					return nil, err
				}
				return &RunResult{Data: data, Messages: messages, Raw: resp.Raw, Usage: usage}, nil
			}
		}

		// Execute tool calls strictly in array order, one result message per
		// call, then hand the grown conversation back to the model.
		for _, call := range msg.ToolCalls {
			result := a.registry.execute(ctx, rc, call)
			messages = append(messages, NewToolMessage(call.ID, result))
		}
		rc.Messages = messages
	}

	return nil, fmt.Errorf("%w: no terminal response after %d iterations", ErrIterationLimit, cfg.maxIterations)
}

// systemPromptFor resolves the base system prompt and, in structured-output
// mode, appends the fixed instruction directing the model at the output tool.
func (a *Agent) systemPromptFor(rc *RunContext) (string, error) {
	base := a.systemPrompt
	if a.systemPromptFn != nil {
		s, err := a.systemPromptFn(rc)
		if err != nil {
			return "", err
		}
		base = s
	}
	if a.outputSchema == nil {
		return base, nil
	}
	instruction := fmt.Sprintf(
		"When you have determined the final answer, call the '%s' function with it. Do not reply in plain text.",
		OutputToolName,
	)
	if base == "" {
		return instruction, nil
	}
	return base + "\n\n" + instruction, nil
}

func findOutputCall(calls []ToolCall) (ToolCall, bool) {
	for _, call := range calls {
		if call.Function.Name == OutputToolName {
			return call, true
		}
	}
	return ToolCall{}, false
}

// decodeOutput parses and validates the structured payload carried by the
// output tool call. Failures are terminal; the run does not retry or repair.
func (a *Agent) decodeOutput(arguments string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(arguments), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode %q arguments: %w", ErrOutputValidation, OutputToolName, err)
	}
	if err := a.outputSchema.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputValidation, err)
	}
	return payload, nil
}
