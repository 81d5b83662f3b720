// Copyright (c) the luagent authors. All rights reserved.

// Package openai provides an [agent.ChatClient] implementation backed by any
// OpenAI-compatible Chat Completions endpoint.
//
// Create a client with [New] and pass it to [agent.New]:
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"))
//	ag, err := agent.New(client, agent.WithModel("gpt-4o-mini"))
//
// Or let the environment pick the provider:
//
//	client, provider, err := openai.NewFromEnv()
//	ag, err := agent.New(client, agent.WithModel(provider.Model))
//
// The client speaks to OpenAI by default; [WithBaseURL] points it at any
// compatible endpoint (OpenRouter, Groq, DeepSeek, local servers), and
// [WithAzureCredential] switches authentication to Azure AD tokens for Azure
// OpenAI deployments.
package openai
