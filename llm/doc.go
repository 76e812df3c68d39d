// Copyright 2024 AgentFlow Authors. All rights reserved.
// Use of this source code is governed by a MIT license that can be
// found in the LICENSE file.

/*
Package llm provides the provider-agnostic chat completion contract the
governance council dispatches role reviews through.

# Overview

The llm package defines the Provider interface and the ChatRequest/
ChatResponse wire types every concrete provider implementation in
llm/providers/ satisfies. It does not itself route between providers or
retry failed calls — that's governance/provider's job (Router,
FallbackChain) and llm/retry's job (backoff), respectively. llm stays
deliberately thin: types, error codes, and the credential/middleware glue
the providers share.

# Provider Interface

The core Provider interface defines the contract for all LLM providers:

	type Provider interface {
	    Completion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	    Stream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error)
	    HealthCheck(ctx context.Context) (*HealthStatus, error)
	    Name() string
	    SupportsNativeFunctionCalling() bool
	    ListModels(ctx context.Context) ([]Model, error)
	}

# Supported Providers

llm/providers/openai and llm/providers/openaicompat implement Provider
directly; governance/provider wraps the gh CLI, Gemini, Vertex AI, and
Ollama as additional named providers using the same ChatRequest/
ChatResponse shapes (see governance/provider/router.go).

# Usage

	resp, err := provider.Completion(ctx, &llm.ChatRequest{
	    Model: "gpt-4o",
	    Messages: []llm.Message{
	        {Role: llm.RoleUser, Content: "Hello!"},
	    },
	})

# Streaming

Providers that support it stream responses as StreamChunk values:

	stream, err := provider.Stream(ctx, &llm.ChatRequest{
	    Model:    "gpt-4o",
	    Messages: messages,
	})
	if err != nil {
	    log.Fatal(err)
	}

	for chunk := range stream {
	    if chunk.Err != nil {
	        log.Printf("Error: %v", chunk.Err)
	        break
	    }
	    fmt.Print(chunk.Delta.Content)
	}

# Retry and Circuit Breaking

llm/retry provides exponential backoff for transient provider errors;
llm/circuitbreaker trips after repeated failures to stop hammering a
provider that's down. Both are generic over the call's result type and
wrap a single attempt, not the Provider interface itself:

	resp, err := retry.DoWithResultTyped(retryer, ctx, func() (*llm.ChatResponse, error) {
	    return circuitbreaker.CallWithResultTyped(breaker, ctx, func() (*llm.ChatResponse, error) {
	        return provider.Completion(ctx, req)
	    })
	})

# Error Handling

The package re-exports types.ErrorCode and its constants so providers
don't need a second import for error classification:

	const (
	    ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
	    ErrAuthentication     ErrorCode = "AUTHENTICATION"
	    ErrRateLimit          ErrorCode = "RATE_LIMIT"
	    ErrContextTooLong     ErrorCode = "CONTEXT_TOO_LONG"
	    ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	)

Use IsRetryable to check if an error can be retried:

	if llm.IsRetryable(err) {
	    // Implement retry logic
	}

See the subpackages for additional functionality:
  - llm/middleware: request/response rewriting (empty-tools cleanup, etc.)
  - llm/retry: retry strategies and backoff
  - llm/circuitbreaker: consecutive-failure trip/reset around a single call
  - llm/providers/*: provider-specific implementations
*/
package llm
