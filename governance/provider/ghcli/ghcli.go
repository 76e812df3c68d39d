// Package ghcli adapts the GitHub CLI's "gh models run" command to the
// llm.Provider interface so it can sit in the same fallback chain as the
// HTTP-backed providers, even though it has no native streaming support.
package ghcli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cli/safeexec"
	"github.com/jhcook/agentic-governance/llm"
	"github.com/jhcook/agentic-governance/types"
	"go.uber.org/zap"
)

const defaultModel = "gpt-4o"

// Available reports whether the gh executable is resolvable on PATH.
func Available() bool {
	_, err := safeexec.LookPath("gh")
	return err == nil
}

// Provider shells out to `gh models run` for completions. It supports
// neither streaming nor model listing; ListModels and Stream return
// ErrServiceUnavailable rather than silently degrading.
type Provider struct {
	logger *zap.Logger
}

// New builds a gh-backed provider. Callers should check Available first.
func New(logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{logger: logger}
}

func (p *Provider) Name() string { return "gh" }

func (p *Provider) SupportsNativeFunctionCalling() bool { return false }

func (p *Provider) ListModels(ctx context.Context) ([]llm.Model, error) {
	return nil, types.NewError(types.ErrServiceUnavailable, "gh provider does not support model listing")
}

func (p *Provider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	path, err := safeexec.LookPath("gh")
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, err
	}
	cmd := exec.CommandContext(ctx, path, "auth", "status")
	if err := cmd.Run(); err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: time.Since(start)}, err
	}
	return &llm.HealthStatus{Healthy: true, Latency: time.Since(start)}, nil
}

// Completion renders the chat messages as a single prompt and pipes it
// through `gh models run <model>`. gh models run has no structured
// request/response contract, so token usage is left zeroed.
func (p *Provider) Completion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	path, err := safeexec.LookPath("gh")
	if err != nil {
		return nil, types.NewError(types.ErrProviderUnavailable, "gh not found on PATH").WithCause(err)
	}

	model := req.Model
	if model == "" {
		model = defaultModel
	}

	prompt := renderPrompt(req.Messages)
	cmd := exec.CommandContext(ctx, path, "models", "run", model)
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "gh models run failed: "+strings.TrimSpace(stderr.String())).
			WithRetryable(true).WithCause(err)
	}

	content := strings.TrimSpace(stdout.String())
	return &llm.ChatResponse{
		Provider:  "gh",
		Model:     model,
		CreatedAt: time.Now(),
		Choices: []llm.ChatChoice{{
			Index:        0,
			FinishReason: "stop",
			Message:      llm.Message{Role: llm.RoleAssistant, Content: content},
		}},
	}, nil
}

func (p *Provider) Stream(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	return nil, types.NewError(types.ErrServiceUnavailable, "gh provider does not support streaming")
}

func renderPrompt(msgs []llm.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	return b.String()
}
