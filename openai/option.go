// Copyright (c) the luagent authors. All rights reserved.

package openai

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/jeffmm/luagent/agent"
)

// clientConfig holds resolved configuration for the [Client].
type clientConfig struct {
	baseURL         string
	organization    string
	httpClient      *http.Client
	headers         map[string]string
	azureCredential azcore.TokenCredential
	middleware      []agent.ChatMiddleware
}

// Option configures a [Client].
type Option func(*clientConfig)

// WithBaseURL overrides the API base URL (e.g., for OpenRouter, Groq, or a
// local compatible server).
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithOrganization sets the OpenAI organization header.
func WithOrganization(org string) Option {
	return func(c *clientConfig) { c.organization = org }
}

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithHeaders adds custom headers to every request. Setting an "api-key"
// header suppresses the Authorization bearer header (Azure OpenAI key auth).
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) { c.headers = headers }
}

// WithAzureCredential enables Azure AD token authentication using the
// provided credential. When set, the client obtains and refreshes tokens
// automatically instead of using API keys.
func WithAzureCredential(cred azcore.TokenCredential) Option {
	return func(c *clientConfig) { c.azureCredential = cred }
}

// WithMiddleware adds middleware to the non-streaming request pipeline.
// Middleware is applied in the order provided (first = outermost).
func WithMiddleware(mw ...agent.ChatMiddleware) Option {
	return func(c *clientConfig) { c.middleware = append(c.middleware, mw...) }
}
