// Copyright (c) the luagent authors. All rights reserved.

package openai

import (
	"os"
	"strings"
)

// Provider is a chat-completion backend resolved from the environment.
type Provider struct {
	Name    string
	BaseURL string
	Model   string
	APIKey  string
}

// providerSpec declares one known provider: the env var holding its API key,
// its base URL, and a sensible default model.
type providerSpec struct {
	name         string
	apiKeyEnv    string
	baseURL      string
	defaultModel string
}

// knownProviders is consulted in order; the first configured key wins.
var knownProviders = []providerSpec{
	{"openai", "OPENAI_API_KEY", "https://api.openai.com/v1", "gpt-4o-mini"},
	{"openrouter", "OPENROUTER_API_KEY", "https://openrouter.ai/api/v1", "openai/gpt-4o-mini"},
	{"groq", "GROQ_API_KEY", "https://api.groq.com/openai/v1", "llama-3.3-70b-versatile"},
	{"deepseek", "DEEPSEEK_API_KEY", "https://api.deepseek.com/v1", "deepseek-chat"},
}

// DetectProvider walks the known providers in a fixed order and returns the
// first one whose API key is set in the environment. The base URL and model
// can be overridden per provider via <NAME>_BASE_URL and <NAME>_MODEL.
func DetectProvider() (*Provider, bool) {
	return DetectProviderFrom(os.LookupEnv)
}

// DetectProviderFrom is [DetectProvider] with an injectable variable lookup.
func DetectProviderFrom(lookup func(string) (string, bool)) (*Provider, bool) {
	for _, spec := range knownProviders {
		key, ok := lookup(spec.apiKeyEnv)
		if !ok || key == "" {
			continue
		}
		prefix := strings.ToUpper(spec.name)
		p := &Provider{
			Name:    spec.name,
			BaseURL: spec.baseURL,
			Model:   spec.defaultModel,
			APIKey:  key,
		}
		if v, ok := lookup(prefix + "_BASE_URL"); ok && v != "" {
			p.BaseURL = v
		}
		if v, ok := lookup(prefix + "_MODEL"); ok && v != "" {
			p.Model = v
		}
		return p, true
	}
	return nil, false
}
