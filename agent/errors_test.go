// Copyright (c) the luagent authors. All rights reserved.

package agent_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffmm/luagent/agent"
)

func TestSentinelErrorChains(t *testing.T) {
	assert.ErrorIs(t, agent.ErrConfiguration, agent.ErrAgent)
	assert.ErrorIs(t, agent.ErrExecution, agent.ErrAgent)
	assert.ErrorIs(t, agent.ErrOutputValidation, agent.ErrAgent)
	assert.ErrorIs(t, agent.ErrIterationLimit, agent.ErrAgent)

	assert.ErrorIs(t, agent.ErrAuth, agent.ErrService)
	assert.ErrorIs(t, agent.ErrInvalidRequest, agent.ErrService)
	assert.ErrorIs(t, agent.ErrInvalidResponse, agent.ErrService)

	assert.ErrorIs(t, agent.ErrToolExecution, agent.ErrTool)
	assert.ErrorIs(t, agent.ErrToolNotFound, agent.ErrTool)

	assert.NotErrorIs(t, agent.ErrTool, agent.ErrAgent)
}

func TestServiceError(t *testing.T) {
	err := &agent.ServiceError{
		StatusCode: 429,
		Message:    "rate limited",
		Code:       "rate_limit_exceeded",
		Err:        agent.ErrService,
	}

	assert.Equal(t, "service error 429 (rate_limit_exceeded): rate limited", err.Error())
	assert.ErrorIs(t, err, agent.ErrService)

	bare := &agent.ServiceError{StatusCode: 500, Message: "boom"}
	assert.Equal(t, "service error 500: boom", bare.Error())
}

func TestServiceError_ExtractFromChain(t *testing.T) {
	inner := &agent.ServiceError{StatusCode: 401, Message: "bad key", Err: agent.ErrAuth}
	wrapped := fmt.Errorf("%w: %w", agent.ErrExecution, inner)

	var svcErr *agent.ServiceError
	require.True(t, errors.As(wrapped, &svcErr))
	assert.Equal(t, 401, svcErr.StatusCode)
	assert.ErrorIs(t, wrapped, agent.ErrAuth)
	assert.ErrorIs(t, wrapped, agent.ErrExecution)
}

func TestToolError(t *testing.T) {
	err := &agent.ToolError{
		ToolName: "get_weather",
		Message:  "invalid arguments",
		Err:      agent.ErrToolExecution,
	}

	assert.Equal(t, `tool "get_weather": invalid arguments`, err.Error())
	assert.ErrorIs(t, err, agent.ErrToolExecution)
	assert.ErrorIs(t, err, agent.ErrTool)
}
