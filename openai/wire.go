// Copyright (c) the luagent authors. All rights reserved.

package openai

import (
	"encoding/json"

	"github.com/jeffmm/luagent/agent"
)

// chatCompletionResponse is the Chat Completions API response body.
type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []choice     `json:"choices"`
	Usage   *usageCounts `json:"usage,omitempty"`
}

type choice struct {
	Index        int         `json:"index"`
	Message      respMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type respMessage struct {
	Role      string           `json:"role"`
	Content   *string          `json:"content"`
	ToolCalls []agent.ToolCall `json:"tool_calls,omitempty"`
}

type usageCounts struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// chatCompletionChunk is a single SSE chunk in streaming mode.
type chatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
	Usage   *usageCounts  `json:"usage,omitempty"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Role      string           `json:"role,omitempty"`
	Content   *string          `json:"content,omitempty"`
	ToolCalls []streamToolCall `json:"tool_calls,omitempty"`
}

// streamToolCall is one tool-call delta. Index identifies the slot the delta
// belongs to; the remaining fields are partial.
type streamToolCall struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments,omitempty"`
	} `json:"function"`
}

// unmarshalChatResponse parses the JSON response body.
func unmarshalChatResponse(data []byte) (*chatCompletionResponse, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// parseChatResponse normalizes the wire response into framework types.
func parseChatResponse(raw *chatCompletionResponse) *agent.ChatResponse {
	resp := &agent.ChatResponse{
		ID:    raw.ID,
		Model: raw.Model,
		Raw:   raw,
	}

	if raw.Usage != nil {
		resp.Usage = agent.UsageDetails{
			InputTokens:  raw.Usage.PromptTokens,
			OutputTokens: raw.Usage.CompletionTokens,
			TotalTokens:  raw.Usage.TotalTokens,
		}
	}

	if len(raw.Choices) > 0 {
		c := raw.Choices[0]
		resp.FinishReason = mapFinishReason(c.FinishReason)

		msg := agent.Message{
			Role:      agent.Role(c.Message.Role),
			ToolCalls: c.Message.ToolCalls,
		}
		if c.Message.Content != nil {
			msg.Content = *c.Message.Content
		}
		resp.Message = msg
	}

	return resp
}

func mapFinishReason(s string) agent.FinishReason {
	switch s {
	case "stop":
		return agent.FinishReasonStop
	case "length":
		return agent.FinishReasonLength
	case "tool_calls":
		return agent.FinishReasonToolCalls
	case "content_filter":
		return agent.FinishReasonContentFilter
	default:
		return agent.FinishReason(s)
	}
}
