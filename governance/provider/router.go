// Package provider wires the framework's llm.Provider implementations,
// plus the governance-specific gh/vertex/ollama adapters, behind a single
// router that applies retry, circuit-breaking, and fallback uniformly.
package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhcook/agentic-governance/governance"
	"github.com/jhcook/agentic-governance/governance/provider/ghcli"
	"github.com/jhcook/agentic-governance/governance/provider/ollama"
	"github.com/jhcook/agentic-governance/governance/provider/vertex"
	"github.com/jhcook/agentic-governance/llm"
	"github.com/jhcook/agentic-governance/llm/circuitbreaker"
	"github.com/jhcook/agentic-governance/llm/retry"
	anthropic "github.com/jhcook/agentic-governance/providers/anthropic"
	"github.com/jhcook/agentic-governance/providers"
	"github.com/jhcook/agentic-governance/providers/gemini"
	"github.com/jhcook/agentic-governance/llm/providers/openai"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Names of the six providers the static fallback chain knows about, in
// the order SPEC_FULL.md §6.2 mandates.
const (
	NameGH        = "gh"
	NameGemini    = "gemini"
	NameVertex    = "vertex"
	NameOpenAI    = "openai"
	NameAnthropic = "anthropic"
	NameOllama    = "ollama"
)

// FallbackOrder is the static provider precedence used by the council
// when a caller does not pin a specific provider.
var FallbackOrder = []string{NameGH, NameGemini, NameVertex, NameOpenAI, NameAnthropic, NameOllama}

var runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ai_command_runs_total",
	Help: "Total number of completion calls issued through the governance provider router, by provider and outcome.",
}, []string{"provider", "outcome"})

// Router lazily constructs and caches llm.Provider instances by name,
// wrapping each with a retry policy and circuit breaker before handing
// it to callers.
type Router struct {
	mu      sync.Mutex
	cache   map[string]llm.Provider
	secrets SecretStore
	logger  *zap.Logger
}

// NewRouter builds a Router backed by the given secret store and logger.
// A nil secrets store defaults to environment-variable lookup.
func NewRouter(secrets SecretStore, logger *zap.Logger) *Router {
	if secrets == nil {
		secrets = NewEnvSecretStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		cache:   map[string]llm.Provider{},
		secrets: secrets,
		logger:  logger,
	}
}

// Get returns the resolved, wrapped provider for name, constructing it on
// first use. It returns governance.ErrConfig if the provider is not
// configured (missing credentials) or name is unknown.
func (r *Router) Get(name string) (llm.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.cache[name]; ok {
		return p, nil
	}

	base, err := r.build(name)
	if err != nil {
		return nil, err
	}
	wrapped := r.wrap(name, base)
	r.cache[name] = wrapped
	return wrapped, nil
}

// Configured reports whether name has the credentials it needs, without
// constructing or caching the provider.
func (r *Router) Configured(name string) bool {
	switch name {
	case NameGH:
		return ghcli.Available()
	case NameGemini:
		_, ok := firstOf(r.secrets, "GOOGLE_GEMINI_API_KEY", "GEMINI_API_KEY")
		return ok
	case NameVertex:
		_, projOK := r.secrets.Lookup("GOOGLE_CLOUD_PROJECT")
		_, locOK := r.secrets.Lookup("GOOGLE_CLOUD_LOCATION")
		return projOK && locOK
	case NameOpenAI:
		_, ok := r.secrets.Lookup("OPENAI_API_KEY")
		return ok
	case NameAnthropic:
		_, ok := r.secrets.Lookup("ANTHROPIC_API_KEY")
		return ok
	case NameOllama:
		return true // defaults to localhost, no credential required
	default:
		return false
	}
}

func (r *Router) build(name string) (llm.Provider, error) {
	switch name {
	case NameGH:
		if !ghcli.Available() {
			return nil, configErr(NameGH, "gh executable not found on PATH")
		}
		return ghcli.New(r.logger), nil

	case NameGemini:
		key, ok := firstOf(r.secrets, "GOOGLE_GEMINI_API_KEY", "GEMINI_API_KEY")
		if !ok {
			return nil, configErr(NameGemini, "missing GOOGLE_GEMINI_API_KEY/GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(providers.GeminiConfig{APIKey: key}, r.logger), nil

	case NameVertex:
		project, ok := r.secrets.Lookup("GOOGLE_CLOUD_PROJECT")
		if !ok {
			return nil, configErr(NameVertex, "missing GOOGLE_CLOUD_PROJECT")
		}
		location, ok := r.secrets.Lookup("GOOGLE_CLOUD_LOCATION")
		if !ok {
			location = "us-central1"
		}
		return vertex.New(vertex.Config{Project: project, Location: location}, r.logger)

	case NameOpenAI:
		key, ok := r.secrets.Lookup("OPENAI_API_KEY")
		if !ok {
			return nil, configErr(NameOpenAI, "missing OPENAI_API_KEY")
		}
		model, _ := r.secrets.Lookup("OPENAI_MODEL")
		return openai.NewOpenAIProvider(providers.OpenAIConfig{APIKey: key, Model: model}, r.logger), nil

	case NameAnthropic:
		key, ok := r.secrets.Lookup("ANTHROPIC_API_KEY")
		if !ok {
			return nil, configErr(NameAnthropic, "missing ANTHROPIC_API_KEY")
		}
		return anthropic.NewClaudeProvider(providers.ClaudeConfig{APIKey: key}, r.logger), nil

	case NameOllama:
		host, _ := r.secrets.Lookup("OLLAMA_HOST")
		return ollama.New(ollama.Config{Host: host}, r.logger)

	default:
		return nil, configErr(name, "unknown provider")
	}
}

func configErr(name, msg string) error {
	return governance.NewConfigError(name, msg)
}

// retryPolicyFor returns the backoff policy grounded in SPEC_FULL.md §6.1:
// the gh CLI provider retries slower since a subprocess invocation is more
// expensive to repeat than an HTTP round trip.
func retryPolicyFor(name string) *retry.RetryPolicy {
	initial := 2 * time.Second
	if name == NameGH {
		initial = 3 * time.Second
	}
	return &retry.RetryPolicy{
		MaxRetries:   3,
		InitialDelay: initial,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// wrap decorates base with retry + circuit breaker + structured logging +
// the ai_command_runs_total counter, without changing the llm.Provider
// contract callers depend on.
func (r *Router) wrap(name string, base llm.Provider) llm.Provider {
	retryer := retry.NewBackoffRetryer(retryPolicyFor(name), r.logger)
	breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig(), r.logger)
	return &instrumented{
		name:    name,
		base:    base,
		retryer: retryer,
		breaker: breaker,
		logger:  r.logger,
	}
}

// instrumented wraps an llm.Provider with retry, circuit-breaking, and
// the structured {provider, model, duration_ms, outcome} log line
// SPEC_FULL.md §6.1 requires of every provider call.
type instrumented struct {
	name    string
	base    llm.Provider
	retryer retry.Retryer
	breaker circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func (i *instrumented) Name() string { return i.name }

func (i *instrumented) SupportsNativeFunctionCalling() bool {
	return i.base.SupportsNativeFunctionCalling()
}

func (i *instrumented) ListModels(ctx context.Context) ([]llm.Model, error) {
	return i.base.ListModels(ctx)
}

func (i *instrumented) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	return i.base.HealthCheck(ctx)
}

func (i *instrumented) Completion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	start := time.Now()
	var resp *llm.ChatResponse

	err := i.breaker.Call(ctx, func() error {
		return i.retryer.Do(ctx, func() error {
			r, callErr := i.base.Completion(ctx, req)
			if callErr != nil {
				return callErr
			}
			resp = r
			return nil
		})
	})

	duration := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	runsTotal.WithLabelValues(i.name, outcome).Inc()
	i.logger.Info("provider call",
		zap.String("provider", i.name),
		zap.String("model", req.Model),
		zap.Int64("duration_ms", duration.Milliseconds()),
		zap.String("outcome", outcome),
	)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", i.name, err)
	}
	return resp, nil
}

func (i *instrumented) Stream(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	// The council only ever issues synchronous Completion calls; Stream is
	// passed through unwrapped since retry/circuit-breaking over a
	// half-delivered channel would corrupt partial output.
	return i.base.Stream(ctx, req)
}
