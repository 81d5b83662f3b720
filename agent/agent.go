// Copyright (c) the luagent authors. All rights reserved.

package agent

import (
	"fmt"

	"github.com/google/uuid"
)

// Agent is the configured run loop bound to a model, prompt, tools, and an
// optional output schema. Create one with [New] and functional options.
//
// Agents hold no mutable run state: concurrent runs are safe as long as each
// run gets its own history and deps.
type Agent struct {
	id             string
	name           string
	client         ChatClient
	model          string
	systemPrompt   string
	systemPromptFn func(rc *RunContext) (string, error)
	outputSchema   *SchemaNode
	temperature    *float64
	maxTokens      *int
	apiKey         string
	registry       *toolRegistry

	tools []*Tool // collected by options, registered by New
}

// Option configures an [Agent] via [New].
type Option func(*Agent)

// WithModel sets the model identifier sent with every request. Required.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithName sets the agent's display name.
func WithName(name string) Option {
	return func(a *Agent) { a.name = name }
}

// WithSystemPrompt sets a static system prompt, used verbatim.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.systemPrompt = prompt }
}

// WithSystemPromptFunc sets a dynamic system prompt, evaluated once per run
// with that run's [RunContext]. Takes precedence over [WithSystemPrompt].
func WithSystemPromptFunc(fn func(rc *RunContext) (string, error)) Option {
	return func(a *Agent) { a.systemPromptFn = fn }
}

// WithOutputSchema enables structured-output mode: the agent registers the
// final_answer tool with this schema, instructs the model to call it, and
// validates the call's arguments before returning them as [RunResult.Data].
func WithOutputSchema(schema *SchemaNode) Option {
	return func(a *Agent) { a.outputSchema = schema }
}

// WithTools adds tools to the agent's tool set.
func WithTools(tools ...*Tool) Option {
	return func(a *Agent) { a.tools = append(a.tools, tools...) }
}

// WithTemperature sets the sampling temperature sent with every request.
func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = &t }
}

// WithMaxTokens caps the completion length for every request.
func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = &n }
}

// WithAPIKey sets the credential for every request, overriding the client's
// own configuration and any per-run deps entry.
func WithAPIKey(key string) Option {
	return func(a *Agent) { a.apiKey = key }
}

// New creates an Agent bound to the given [ChatClient].
//
// It fails with [ErrConfiguration] when the client is nil, no model was
// configured, a tool is missing its handler or duplicates a name, or a tool
// named final_answer collides with a configured output schema.
func New(client ChatClient, opts ...Option) (*Agent, error) {
	a := &Agent{
		id:       uuid.NewString(),
		client:   client,
		registry: newToolRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.client == nil {
		return nil, fmt.Errorf("%w: a ChatClient is required", ErrConfiguration)
	}
	if a.model == "" {
		return nil, fmt.Errorf("%w: a model identifier is required", ErrConfiguration)
	}

	for _, t := range a.tools {
		if err := a.registry.register(t); err != nil {
			return nil, err
		}
	}
	if a.outputSchema != nil {
		if err := a.registry.registerOutputTool(a.outputSchema); err != nil {
			return nil, err
		}
	}
	a.tools = nil

	return a, nil
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }
