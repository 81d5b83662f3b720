// Copyright (c) the luagent authors. All rights reserved.

package openai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffmm/luagent/openai"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDetectProviderFrom_FirstConfiguredWins(t *testing.T) {
	p, ok := openai.DetectProviderFrom(lookupFrom(map[string]string{
		"GROQ_API_KEY":   "gk",
		"OPENAI_API_KEY": "ok",
	}))
	require.True(t, ok)
	assert.Equal(t, "openai", p.Name)
	assert.Equal(t, "https://api.openai.com/v1", p.BaseURL)
	assert.Equal(t, "gpt-4o-mini", p.Model)
	assert.Equal(t, "ok", p.APIKey)
}

func TestDetectProviderFrom_SkipsEmptyKeys(t *testing.T) {
	p, ok := openai.DetectProviderFrom(lookupFrom(map[string]string{
		"OPENAI_API_KEY":   "",
		"DEEPSEEK_API_KEY": "dk",
	}))
	require.True(t, ok)
	assert.Equal(t, "deepseek", p.Name)
	assert.Equal(t, "deepseek-chat", p.Model)
}

func TestDetectProviderFrom_Overrides(t *testing.T) {
	p, ok := openai.DetectProviderFrom(lookupFrom(map[string]string{
		"OPENROUTER_API_KEY":  "rk",
		"OPENROUTER_BASE_URL": "https://proxy.internal/v1",
		"OPENROUTER_MODEL":    "anthropic/claude-sonnet",
	}))
	require.True(t, ok)
	assert.Equal(t, "openrouter", p.Name)
	assert.Equal(t, "https://proxy.internal/v1", p.BaseURL)
	assert.Equal(t, "anthropic/claude-sonnet", p.Model)
}

func TestDetectProviderFrom_NoneConfigured(t *testing.T) {
	p, ok := openai.DetectProviderFrom(lookupFrom(nil))
	assert.False(t, ok)
	assert.Nil(t, p)
}
