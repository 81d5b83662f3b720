// Copyright (c) the luagent authors. All rights reserved.

package openai

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/jeffmm/luagent/agent"
)

// Accumulator reassembles a streamed chat completion from its server-sent
// "data:" events into a response shaped identically to a non-streaming one,
// emitting [agent.StreamChunk] notifications synchronously as it goes.
//
// Tool-call fragments are accumulated per slot, keyed by the index each delta
// declares; indices need not be contiguous or ordered. A streamed tool call
// is only complete once the whole stream has been consumed; partial calls
// are never surfaced as complete.
type Accumulator struct {
	onChunk func(agent.StreamChunk)

	content      strings.Builder
	slots        map[int]*toolCallSlot
	responseID   string
	model        string
	finishReason string
	usage        agent.UsageDetails
}

type toolCallSlot struct {
	id       string
	callType string
	name     strings.Builder
	args     strings.Builder
}

// NewAccumulator creates an Accumulator. onChunk may be nil to accumulate
// silently.
func NewAccumulator(onChunk func(agent.StreamChunk)) *Accumulator {
	return &Accumulator{
		onChunk: onChunk,
		slots:   make(map[int]*toolCallSlot),
	}
}

// Process consumes SSE lines from r until the stream ends or a literal
// "data: [DONE]" sentinel is seen (anything after the sentinel is ignored).
// Lines without a data prefix and data payloads that fail to parse as JSON
// are skipped silently. It returns the normalized response.
func (a *Accumulator) Process(r io.Reader) (*agent.ChatResponse, error) {
	scanner := bufio.NewScanner(r)
	// Allow large SSE lines (some responses can be substantial).
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data: "))

		if data == "[DONE]" {
			break
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		a.consume(&chunk)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read SSE stream: %v", agent.ErrService, err)
	}

	return a.finalize(), nil
}

func (a *Accumulator) consume(chunk *chatCompletionChunk) {
	if chunk.ID != "" {
		a.responseID = chunk.ID
	}
	if chunk.Model != "" {
		a.model = chunk.Model
	}
	if chunk.Usage != nil {
		a.usage = agent.UsageDetails{
			InputTokens:  chunk.Usage.PromptTokens,
			OutputTokens: chunk.Usage.CompletionTokens,
			TotalTokens:  chunk.Usage.TotalTokens,
		}
	}
	if len(chunk.Choices) == 0 {
		return
	}
	c := chunk.Choices[0]

	// Last non-null finish reason wins.
	if c.FinishReason != nil && *c.FinishReason != "" {
		a.finishReason = *c.FinishReason
	}

	if c.Delta.Content != nil && *c.Delta.Content != "" {
		a.content.WriteString(*c.Delta.Content)
		a.emit(agent.StreamChunk{Type: agent.ChunkContent, Content: *c.Delta.Content})
	}

	for _, tc := range c.Delta.ToolCalls {
		slot, ok := a.slots[tc.Index]
		if !ok {
			slot = &toolCallSlot{id: tc.ID, callType: tc.Type}
			a.slots[tc.Index] = slot
			if tc.ID != "" {
				a.emit(agent.StreamChunk{
					Type:     agent.ChunkToolCallStart,
					Index:    tc.Index,
					ToolCall: &agent.ToolCall{ID: tc.ID, Type: callType(tc.Type)},
				})
			}
		} else if slot.id == "" && tc.ID != "" {
			slot.id = tc.ID
		}

		// Name fragments are accumulated without an event; only arguments
		// deltas are surfaced incrementally.
		if tc.Function.Name != "" {
			slot.name.WriteString(tc.Function.Name)
		}
		if tc.Function.Arguments != "" {
			slot.args.WriteString(tc.Function.Arguments)
			a.emit(agent.StreamChunk{
				Type:    agent.ChunkToolCallDelta,
				Index:   tc.Index,
				Content: tc.Function.Arguments,
			})
		}
	}
}

// finalize emits one tool_call_end per accumulated slot (ascending index) and
// builds the normalized response.
func (a *Accumulator) finalize() *agent.ChatResponse {
	msg := respMessage{Role: string(agent.RoleAssistant)}
	if a.content.Len() > 0 {
		content := a.content.String()
		msg.Content = &content
	}

	for _, idx := range slices.Sorted(maps.Keys(a.slots)) {
		slot := a.slots[idx]
		call := agent.ToolCall{
			ID:   slot.id,
			Type: callType(slot.callType),
			Function: agent.FunctionCall{
				Name:      slot.name.String(),
				Arguments: slot.args.String(),
			},
		}
		a.emit(agent.StreamChunk{Type: agent.ChunkToolCallEnd, Index: idx, ToolCall: &call})
		msg.ToolCalls = append(msg.ToolCalls, call)
	}

	raw := &chatCompletionResponse{
		ID:     a.responseID,
		Object: "chat.completion",
		Model:  a.model,
		Choices: []choice{{
			Message:      msg,
			FinishReason: a.finishReason,
		}},
	}
	resp := parseChatResponse(raw)
	resp.Usage = a.usage
	return resp
}

func (a *Accumulator) emit(c agent.StreamChunk) {
	if a.onChunk != nil {
		a.onChunk(c)
	}
}

func callType(t string) string {
	if t == "" {
		return "function"
	}
	return t
}
