// Copyright (c) the luagent authors. All rights reserved.

package agent

// ChunkType discriminates streaming chunk events.
type ChunkType string

const (
	// ChunkContent carries one increment of assistant text.
	ChunkContent ChunkType = "content"

	// ChunkToolCallStart signals the first sight of a tool-call slot that
	// carries an id.
	ChunkToolCallStart ChunkType = "tool_call_start"

	// ChunkToolCallDelta carries one increment of a tool call's arguments.
	ChunkToolCallDelta ChunkType = "tool_call_delta"

	// ChunkToolCallEnd carries a fully assembled tool call once the stream
	// has been consumed.
	ChunkToolCallEnd ChunkType = "tool_call_end"
)

// StreamChunk is one incremental event observed while a streamed response is
// reassembled. Chunks are transient: they are delivered to the run's chunk
// handler synchronously and not retained.
type StreamChunk struct {
	Type ChunkType

	// Index identifies the tool-call slot the event belongs to. Indices are
	// declared by the stream and are not necessarily contiguous.
	Index int

	// Content holds the text increment for ChunkContent, or the arguments
	// increment for ChunkToolCallDelta.
	Content string

	// ToolCall is set for ChunkToolCallStart (id only) and ChunkToolCallEnd
	// (complete call).
	ToolCall *ToolCall
}
