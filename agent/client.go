// Copyright (c) the luagent authors. All rights reserved.

package agent

import "context"

// ChatClient is the interface for interacting with a chat-completion backend.
// Provider packages (e.g., openai) implement this interface; tests inject
// mocks.
type ChatClient interface {
	// Complete sends messages to the model and returns the complete response.
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// StreamComplete sends messages with streaming enabled. Implementations
	// reassemble the streamed deltas into a response shaped identically to a
	// non-streaming one, invoking onChunk synchronously for each increment
	// as it is processed. onChunk may be nil.
	StreamComplete(ctx context.Context, req *ChatRequest, onChunk func(StreamChunk)) (*ChatResponse, error)
}

// ChatRequest is a single chat-completion request. Fields map one-to-one onto
// the Chat Completions request body; pointer fields use nil for "unset".
type ChatRequest struct {
	Model       string     `json:"model"`
	Messages    []Message  `json:"messages"`
	Temperature *float64   `json:"temperature,omitempty"`
	MaxTokens   *int       `json:"max_tokens,omitempty"`
	Tools       []ToolSpec `json:"tools,omitempty"`
	Stream      bool       `json:"stream,omitempty"`

	// APIKey is a per-request credential override resolved by the run loop
	// (configuration, then run deps, then environment). Never serialized.
	APIKey string `json:"-"`
}

// ToolSpec is the wire-format declaration of one callable tool.
type ToolSpec struct {
	Type     string       `json:"type"`
	Function FunctionSpec `json:"function"`
}

// FunctionSpec describes a function tool to the model.
type FunctionSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  *SchemaNode `json:"parameters,omitempty"`
}

// ChatResponse is the normalized result of one model call. Streamed and
// non-streamed responses share this shape, so the run loop treats them
// identically.
type ChatResponse struct {
	ID           string
	Model        string
	Message      Message
	FinishReason FinishReason
	Usage        UsageDetails

	// Raw holds the provider-specific response representation, if any.
	Raw any
}

// ChatHandler is the function signature for processing a chat request.
type ChatHandler func(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

// ChatMiddleware wraps a [ChatHandler] to add cross-cutting behavior.
// Middleware should call next to continue the chain, or return early to
// short-circuit.
type ChatMiddleware func(next ChatHandler) ChatHandler

// ChainChatMiddleware applies middleware in order (first in list = outermost
// wrapper).
func ChainChatMiddleware(handler ChatHandler, mws ...ChatMiddleware) ChatHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}
