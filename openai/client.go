// Copyright (c) the luagent authors. All rights reserved.

package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/jeffmm/luagent/agent"
)

// Client implements [agent.ChatClient] against an OpenAI-compatible Chat
// Completions endpoint. Use [New] or [NewFromEnv] to create one.
type Client struct {
	tp      transport
	handler agent.ChatHandler
}

// Verify interface compliance at compile time.
var _ agent.ChatClient = (*Client)(nil)

// New creates a [Client] with the given API key and options. An empty key is
// allowed; the credential is then resolved per request from the run's deps or
// the environment, and a request without any resolvable key fails with
// [agent.ErrConfiguration].
func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	c := &Client{tp: newHTTPTransport(apiKey, cfg)}
	c.handler = agent.ChainChatMiddleware(c.coreComplete, cfg.middleware...)
	return c
}

// NewFromEnv creates a [Client] for the first provider configured in the
// environment (see [DetectProvider]). The returned Provider carries the
// detected model for use with [agent.WithModel].
func NewFromEnv(opts ...Option) (*Client, *Provider, error) {
	p, ok := DetectProvider()
	if !ok {
		return nil, nil, fmt.Errorf("%w: no provider API key found in environment", agent.ErrConfiguration)
	}
	merged := append([]Option{WithBaseURL(p.BaseURL)}, opts...)
	return New(p.APIKey, merged...), p, nil
}

// newWithTransport creates a Client with a custom transport (for testing).
func newWithTransport(tp transport) *Client {
	c := &Client{tp: tp}
	c.handler = c.coreComplete
	return c
}

// Complete sends a non-streaming chat completion request and returns the
// normalized response.
func (c *Client) Complete(ctx context.Context, req *agent.ChatRequest) (*agent.ChatResponse, error) {
	return c.handler(ctx, req)
}

// coreComplete is the base implementation called by the middleware chain.
func (c *Client) coreComplete(ctx context.Context, req *agent.ChatRequest) (*agent.ChatResponse, error) {
	resp, err := c.tp.do(ctx, "POST", "/chat/completions", req, req.APIKey)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", agent.ErrService, err)
	}

	raw, err := unmarshalChatResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", agent.ErrInvalidResponse, err)
	}

	return parseChatResponse(raw), nil
}

// StreamComplete sends a streaming chat completion request, reassembles the
// server-sent events via an [Accumulator], and returns the normalized
// response. onChunk (may be nil) is invoked synchronously per increment.
func (c *Client) StreamComplete(ctx context.Context, req *agent.ChatRequest, onChunk func(agent.StreamChunk)) (*agent.ChatResponse, error) {
	streamReq := *req
	streamReq.Stream = true

	resp, err := c.tp.do(ctx, "POST", "/chat/completions", &streamReq, req.APIKey)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return NewAccumulator(onChunk).Process(resp.Body)
}
