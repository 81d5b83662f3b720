// Copyright (c) the luagent authors. All rights reserved.

// Package agent provides a minimal client-side orchestration layer for
// building AI agents on top of an OpenAI-compatible chat-completions API.
// It manages a conversation loop that may invoke locally-defined tools in
// response to model output, optionally streams incremental tokens, and
// optionally coerces the final answer into a schema-validated structured
// payload.
//
// # Quick Start
//
// Create a ChatClient (e.g., from the openai package) and build an Agent:
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"))
//
//	ag, err := agent.New(client,
//	    agent.WithModel("gpt-4o-mini"),
//	    agent.WithSystemPrompt("You are helpful."),
//	    agent.WithTools(myTool),
//	)
//
//	result, err := ag.Run(ctx, "Hello!")
//	fmt.Println(result.Data)
//
// # Architecture
//
// The package is organized around these key abstractions:
//
//   - [Agent]: the run loop orchestrating model calls and tool execution.
//   - [ChatClient]: interface for chat-completion backends (implemented by
//     the openai package).
//   - [Tool]: callable functions exposed to the model via function calling.
//   - [SchemaNode]: recursive JSON-Schema descriptor with a built-in
//     validator, used for tool parameters and structured output.
//   - [RunContext]: per-run state (caller dependencies plus the live
//     conversation) passed to every tool handler.
//
// # Tools
//
// Use [NewTypedTool] for type-safe tools with automatic schema generation:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name,required"`
//	    Unit     string `json:"unit"     jsonschema:"enum=celsius|fahrenheit"`
//	}
//
//	tool := agent.NewTypedTool("get_weather", "Get current weather",
//	    func(ctx context.Context, rc *agent.RunContext, args WeatherArgs) (any, error) {
//	        return fetchWeather(args.Location, args.Unit)
//	    },
//	)
//
// # Structured Output
//
// Configure an output schema and the agent exposes a synthetic final_answer
// tool to the model; the validated arguments of that call become the run's
// result:
//
//	schema := &agent.SchemaNode{
//	    Type: "object",
//	    Properties: map[string]*agent.SchemaNode{
//	        "answer": {Type: "string"},
//	    },
//	    Required: []string{"answer"},
//	}
//
//	ag, _ := agent.New(client,
//	    agent.WithModel("gpt-4o-mini"),
//	    agent.WithOutputSchema(schema),
//	)
//	result, _ := ag.Run(ctx, "What is 6*7?")
//	answer := result.Data.(map[string]any)["answer"]
//
// # Streaming
//
// Enable streaming per run and receive incremental chunks as they arrive:
//
//	result, err := ag.Run(ctx, "Tell me a story",
//	    agent.WithStreaming(func(c agent.StreamChunk) {
//	        if c.Type == agent.ChunkContent {
//	            fmt.Print(c.Content)
//	        }
//	    }),
//	)
package agent
