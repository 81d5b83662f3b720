// Copyright (c) the luagent authors. All rights reserved.

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/jeffmm/luagent/agent"
)

const defaultBaseURL = "https://api.openai.com/v1"

// apiKeyEnv is the last-resort credential source when neither the client nor
// the request carries a key.
const apiKeyEnv = "OPENAI_API_KEY"

// transport is an unexported interface for HTTP communication.
// The default implementation uses net/http; tests inject a mock.
type transport interface {
	do(ctx context.Context, method, path string, body any, keyOverride string) (*http.Response, error)
}

// httpTransport is the default transport using net/http.
type httpTransport struct {
	client          *http.Client
	baseURL         string
	apiKey          string
	org             string
	headers         map[string]string
	azureCredential azcore.TokenCredential
}

func newHTTPTransport(apiKey string, cfg *clientConfig) *httpTransport {
	t := &httpTransport{
		client:          cfg.httpClient,
		baseURL:         cfg.baseURL,
		apiKey:          apiKey,
		org:             cfg.organization,
		headers:         cfg.headers,
		azureCredential: cfg.azureCredential,
	}
	if t.client == nil {
		t.client = http.DefaultClient
	}
	if t.baseURL == "" {
		t.baseURL = defaultBaseURL
	}
	return t
}

func (t *httpTransport) do(ctx context.Context, method, path string, body any, keyOverride string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	url := t.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if err := t.authorize(ctx, req, keyOverride); err != nil {
		return nil, err
	}

	if t.org != "" {
		req.Header.Set("OpenAI-Organization", t.org)
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, parseErrorResponse(resp)
	}

	return resp, nil
}

// authorize sets the request credential. Azure AD tokens win; otherwise a
// bearer key is resolved from the request override, then the client key, then
// the environment. An "api-key" custom header (Azure key auth) suppresses the
// bearer header entirely.
func (t *httpTransport) authorize(ctx context.Context, req *http.Request, keyOverride string) error {
	if t.azureCredential != nil {
		token, err := t.azureCredential.GetToken(ctx, policy.TokenRequestOptions{
			Scopes: []string{"https://cognitiveservices.azure.com/.default"},
		})
		if err != nil {
			return fmt.Errorf("%w: get azure token: %w", agent.ErrAuth, err)
		}
		slog.DebugContext(ctx, "using Azure AD token authentication", "token_expires_on", token.ExpiresOn)
		req.Header.Set("Authorization", "Bearer "+token.Token)
		return nil
	}

	if _, ok := t.headers["api-key"]; ok {
		return nil
	}

	key := keyOverride
	if key == "" {
		key = t.apiKey
	}
	if key == "" {
		key = os.Getenv(apiKeyEnv)
	}
	if key == "" {
		return fmt.Errorf("%w: no API key configured and %s is not set", agent.ErrConfiguration, apiKeyEnv)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	return nil
}

// parseErrorResponse reads an error response body and returns a typed error
// carrying the status and body detail.
func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &apiErr)

	msg := apiErr.Error.Message
	if msg == "" {
		msg = string(body)
	}

	svcErr := &agent.ServiceError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Code:       apiErr.Error.Code,
	}

	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		svcErr.Err = agent.ErrAuth
	case resp.StatusCode == 400:
		svcErr.Err = agent.ErrInvalidRequest
	default:
		svcErr.Err = agent.ErrService
	}

	return svcErr
}
