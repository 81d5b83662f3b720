// Copyright (c) the luagent authors. All rights reserved.

package agent_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffmm/luagent/agent"
)

func answerSchema() *agent.SchemaNode {
	return &agent.SchemaNode{
		Type: "object",
		Properties: map[string]*agent.SchemaNode{
			"answer": {Type: "string", Description: "The final answer"},
		},
		Required: []string{"answer"},
	}
}

func TestRun_StructuredOutput(t *testing.T) {
	client := &mockClient{
		completeFn: func(_ context.Context, req *agent.ChatRequest) (*agent.ChatResponse, error) {
			return assistantToolCalls(toolCall("c", agent.OutputToolName, `{"answer":"42"}`)), nil
		},
	}

	a, err := agent.New(client,
		agent.WithModel("gpt-4o-mini"),
		agent.WithOutputSchema(answerSchema()),
	)
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "what is the answer?")
	require.NoError(t, err)

	data, ok := result.Data.(map[string]any)
	require.True(t, ok, "structured output should decode to a map")
	assert.Equal(t, "42", data["answer"])
}

func TestRun_StructuredOutputAdvertisesOutputTool(t *testing.T) {
	var captured *agent.ChatRequest
	client := &mockClient{
		completeFn: func(_ context.Context, req *agent.ChatRequest) (*agent.ChatResponse, error) {
			captured = req
			return assistantToolCalls(toolCall("c", agent.OutputToolName, `{"answer":"x"}`)), nil
		},
	}

	a, err := agent.New(client,
		agent.WithModel("gpt-4o-mini"),
		agent.WithSystemPrompt("be precise"),
		agent.WithOutputSchema(answerSchema()),
	)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "go")
	require.NoError(t, err)

	require.NotNil(t, captured)

	var names []string
	for _, spec := range captured.Tools {
		names = append(names, spec.Function.Name)
	}
	assert.Contains(t, names, agent.OutputToolName)

	// The output instruction is appended to the system prompt, once.
	sys := captured.Messages[0]
	require.Equal(t, agent.RoleSystem, sys.Role)
	assert.True(t, strings.HasPrefix(sys.Content, "be precise"))
	assert.Equal(t, 1, strings.Count(sys.Content, agent.OutputToolName))
}

func TestRun_StructuredOutputValidationFailure(t *testing.T) {
	client := &mockClient{
		completeFn: func(_ context.Context, _ *agent.ChatRequest) (*agent.ChatResponse, error) {
			return assistantToolCalls(toolCall("c", agent.OutputToolName, `{"wrong":"x"}`)), nil
		},
	}

	a, err := agent.New(client,
		agent.WithModel("gpt-4o-mini"),
		agent.WithOutputSchema(answerSchema()),
	)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "go")
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrOutputValidation)
	assert.Contains(t, err.Error(), "answer")
}

func TestRun_StructuredOutputMalformedArguments(t *testing.T) {
	client := &mockClient{
		completeFn: func(_ context.Context, _ *agent.ChatRequest) (*agent.ChatResponse, error) {
			return assistantToolCalls(toolCall("c", agent.OutputToolName, `{"answer":`)), nil
		},
	}

	a, err := agent.New(client,
		agent.WithModel("gpt-4o-mini"),
		agent.WithOutputSchema(answerSchema()),
	)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "go")
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrOutputValidation)
}

func TestRun_StructuredOutputRejectsPlainText(t *testing.T) {
	client := &mockClient{
		completeFn: func(_ context.Context, _ *agent.ChatRequest) (*agent.ChatResponse, error) {
			return assistantText("the answer is 42"), nil
		},
	}

	a, err := agent.New(client,
		agent.WithModel("gpt-4o-mini"),
		agent.WithOutputSchema(answerSchema()),
	)
	require.NoError(t, err)

	_, err = a.Run(context.Background(), "go")
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrOutputValidation)
	assert.Contains(t, err.Error(), agent.OutputToolName)
}

func TestRun_StructuredOutputAfterToolRound(t *testing.T) {
	weather := agent.NewTool("get_weather", "", nil,
		func(_ context.Context, _ *agent.RunContext, _ map[string]any) (any, error) {
			return "sunny", nil
		})

	callCount := 0
	client := &mockClient{
		completeFn: func(_ context.Context, _ *agent.ChatRequest) (*agent.ChatResponse, error) {
			callCount++
			if callCount == 1 {
				return assistantToolCalls(toolCall("c1", "get_weather", `{}`)), nil
			}
			return assistantToolCalls(toolCall("c2", agent.OutputToolName, `{"answer":"sunny"}`)), nil
		},
	}

	a, err := agent.New(client,
		agent.WithModel("gpt-4o-mini"),
		agent.WithTools(weather),
		agent.WithOutputSchema(answerSchema()),
	)
	require.NoError(t, err)

	result, err := a.Run(context.Background(), "weather?")
	require.NoError(t, err)
	assert.Equal(t, 2, callCount)

	data := result.Data.(map[string]any)
	assert.Equal(t, "sunny", data["answer"])

	// The run ends at the output call. No tool-result message is appended
	// for it, so the last message is the assistant's final_answer call.
	last := result.Messages[len(result.Messages)-1]
	assert.Equal(t, agent.RoleAssistant, last.Role)
	require.Len(t, last.ToolCalls, 1)
	assert.Equal(t, agent.OutputToolName, last.ToolCalls[0].Function.Name)
}
