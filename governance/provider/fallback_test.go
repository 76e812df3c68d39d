package provider

import (
	"context"
	"testing"

	"github.com/jhcook/agentic-governance/llm"
	"github.com/jhcook/agentic-governance/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestConfigured_UnsetEnvMeansUnconfigured(t *testing.T) {
	store := NewEnvSecretStore()
	router := NewRouter(store, zap.NewNop())

	assert.False(t, router.Configured(NameOpenAI))
	assert.False(t, router.Configured(NameAnthropic))
	assert.True(t, router.Configured(NameOllama)) // no credential required
}

func TestConfigured_OverlayKeyMarksProviderConfigured(t *testing.T) {
	store := NewEnvSecretStore()
	store.Set("OPENAI_API_KEY", "sk-test-key")
	router := NewRouter(store, zap.NewNop())

	assert.True(t, router.Configured(NameOpenAI))
}

func TestFallbackChain_PinnedProviderSkipsOrder(t *testing.T) {
	store := NewEnvSecretStore()
	router := NewRouter(store, zap.NewNop())
	// stub the cache directly since router.Get would try real network construction
	router.cache["mock"] = mocks.NewSuccessProvider("pinned answer")

	chain := NewFallbackChain(router, zap.NewNop())
	resp, used, err := chain.Complete(context.Background(), Request{
		ChatRequest: &llm.ChatRequest{Model: "whatever"},
		Provider:    "mock",
	})

	assert.NoError(t, err)
	assert.Equal(t, "mock", used)
	assert.Equal(t, "pinned answer", resp.Choices[0].Message.Content)
}

func TestFallbackChain_UnknownPinnedProviderReturnsError(t *testing.T) {
	store := NewEnvSecretStore()
	router := NewRouter(store, zap.NewNop())
	chain := NewFallbackChain(router, zap.NewNop())

	_, _, err := chain.Complete(context.Background(), Request{
		ChatRequest: &llm.ChatRequest{Model: "whatever"},
		Provider:    "not-a-real-provider",
	})

	assert.Error(t, err)
}
