package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/jhcook/agentic-governance/governance"
	"github.com/jhcook/agentic-governance/governance/config"
	"github.com/jhcook/agentic-governance/governance/scrub"
	"github.com/jhcook/agentic-governance/llm"
)

// NativeEngine adapts a FallbackChain to governance.Engine, turning a
// council RoleTurn into a single chat completion request. It also
// implements governance.ProviderResolver so the orchestrator can size diff
// chunks for the provider that will actually serve a role before issuing
// the first request.
type NativeEngine struct {
	chain    *FallbackChain
	policy   config.RouterPolicy
	models   map[string]string
	scrubber *scrub.Scrubber
	logger   *zap.Logger
}

// NewNativeEngine builds the native engine. Call governance.RegisterEngine
// ("native", this) once at process startup. policy is the Router Policy
// string-trigger map consulted when a turn doesn't carry a forced
// provider (spec.md §4.1 step 1); pass the zero value to disable it.
// models is Config.Models, the provider-to-default-model map consulted
// when a resolved provider's request doesn't already carry a model (e.g.
// a forced provider with no Router Policy rule to supply one).
func NewNativeEngine(chain *FallbackChain, policy config.RouterPolicy, models map[string]string, logger *zap.Logger) *NativeEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NativeEngine{chain: chain, policy: policy, models: models, scrubber: scrub.New(), logger: logger}
}

func (e *NativeEngine) Run(ctx context.Context, turn governance.RoleTurn) (string, error) {
	prompt := e.scrubber.Scrub(governance.RenderPrompt(turn))
	req := &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: e.scrubber.Scrub(turn.Role.Instruction)},
			{Role: llm.RoleUser, Content: prompt},
		},
	}

	providerName := turn.ForcedProvider
	if providerName == "" {
		if suggested, model, ok := e.policy.Match(prompt); ok {
			if e.chain.router.Configured(suggested) {
				providerName = suggested
				if model != "" {
					req.Model = model
				}
			} else {
				e.logger.Debug("router policy suggested an unconfigured provider, falling through to default",
					zap.String("suggested_provider", suggested))
			}
		}
	}
	if req.Model == "" && providerName != "" {
		if model, ok := e.models[providerName]; ok {
			req.Model = model
		}
	}

	resp, used, err := e.chain.Complete(ctx, Request{ChatRequest: req, Provider: providerName})
	if err != nil {
		return "", err
	}
	e.logger.Debug("role turn dispatched", zap.String("role", turn.Role.Name), zap.String("provider", used))
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ResolveProvider reports which provider a turn would be dispatched to,
// without issuing any request: the forced provider if set, otherwise the
// first configured provider in the fallback order. The Router Policy
// itself is not consulted here since it matches against the rendered
// prompt, which does not exist until the diff has already been chunked.
func (e *NativeEngine) ResolveProvider(forcedProvider string) string {
	if forcedProvider != "" {
		return forcedProvider
	}
	for _, name := range FallbackOrder {
		if e.chain.router.Configured(name) {
			return name
		}
	}
	return ""
}
