// Package vertex adapts the Gemini wire protocol to Vertex AI's
// endpoint shape, authenticating via Google Application Default
// Credentials instead of a static API key.
package vertex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhcook/agentic-governance/llm"
	"github.com/jhcook/agentic-governance/types"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

// Config configures the Vertex AI adapter. Project and Location identify
// the Vertex endpoint; credentials come from ADC (GOOGLE_APPLICATION_CREDENTIALS,
// gcloud auth, or the metadata server), never from an API key.
type Config struct {
	Project  string
	Location string
	Model    string
	Timeout  time.Duration
}

const vertexScope = "https://www.googleapis.com/auth/cloud-platform"

// Provider calls Vertex AI's generateContent endpoint using the same
// content/parts schema as the public Gemini API.
type Provider struct {
	cfg    Config
	client *http.Client
	ts     google.TokenSource
	logger *zap.Logger
}

// New builds a Vertex provider, resolving Application Default Credentials
// eagerly so misconfiguration surfaces at construction time rather than on
// the first completion call.
func New(cfg Config, logger *zap.Logger) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro"
	}

	ctx := context.Background()
	creds, err := google.FindDefaultCredentials(ctx, vertexScope)
	if err != nil {
		return nil, types.NewError(types.ErrAuthentication, "vertex: no application default credentials").WithCause(err)
	}

	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		ts:     creds.TokenSource,
		logger: logger,
	}, nil
}

func (p *Provider) Name() string { return "vertex" }

func (p *Provider) SupportsNativeFunctionCalling() bool { return true }

func (p *Provider) ListModels(ctx context.Context) ([]llm.Model, error) { return nil, nil }

func (p *Provider) endpoint(model, method string) string {
	return fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:%s",
		p.cfg.Location, p.cfg.Project, p.cfg.Location, model, method,
	)
}

func (p *Provider) authorize(req *http.Request) error {
	tok, err := p.ts.Token()
	if err != nil {
		return types.NewError(types.ErrAuthentication, "vertex: failed to mint access token").WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	return nil
}

func (p *Provider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	model := p.cfg.Model
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint(model, "generateContent"), nil)
	if err := p.authorize(httpReq); err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: time.Since(start)}, err
	}
	resp, err := p.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, err
	}
	defer resp.Body.Close()
	// Vertex returns 400 for a GET against generateContent, which still
	// proves the token and routing are valid; only auth/network failures
	// are treated as unhealthy.
	healthy := resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden
	return &llm.HealthStatus{Healthy: healthy, Latency: latency}, nil
}

type vertexContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []vertexPart `json:"parts"`
}

type vertexPart struct {
	Text string `json:"text,omitempty"`
}

type vertexGenerationConfig struct {
	Temperature     float32  `json:"temperature,omitempty"`
	TopP            float32  `json:"topP,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

type vertexRequest struct {
	Contents          []vertexContent         `json:"contents"`
	GenerationConfig  *vertexGenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *vertexContent          `json:"systemInstruction,omitempty"`
}

type vertexCandidate struct {
	Content      vertexContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type vertexUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type vertexResponse struct {
	Candidates    []vertexCandidate `json:"candidates"`
	UsageMetadata *vertexUsage      `json:"usageMetadata,omitempty"`
}

func toVertexContents(msgs []llm.Message) (*vertexContent, []vertexContent) {
	var system *vertexContent
	var out []vertexContent
	for _, m := range msgs {
		if m.Role == llm.RoleSystem {
			system = &vertexContent{Parts: []vertexPart{{Text: m.Content}}}
			continue
		}
		role := string(m.Role)
		if role == "assistant" {
			role = "model"
		}
		if m.Content == "" {
			continue
		}
		out = append(out, vertexContent{Role: role, Parts: []vertexPart{{Text: m.Content}}})
	}
	return system, out
}

func (p *Provider) Completion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.cfg.Model
	}

	system, contents := toVertexContents(req.Messages)
	body := vertexRequest{
		Contents:          contents,
		SystemInstruction: system,
		GenerationConfig: &vertexGenerationConfig{
			Temperature:     req.Temperature,
			TopP:            req.TopP,
			MaxOutputTokens: req.MaxTokens,
			StopSequences:   req.Stop,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRequest, "vertex: failed to marshal request").WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(model, "generateContent"), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if err := p.authorize(httpReq); err != nil {
		return nil, err
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrUpstreamError, "vertex: request failed").WithRetryable(true).WithCause(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, types.NewError(types.ErrUpstreamError, fmt.Sprintf("vertex: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))).
			WithRetryable(resp.StatusCode >= 500)
	}

	var vr vertexResponse
	if err := json.Unmarshal(raw, &vr); err != nil {
		return nil, types.NewError(types.ErrInternalError, "vertex: failed to decode response").WithCause(err)
	}
	if len(vr.Candidates) == 0 {
		return nil, types.NewError(types.ErrUpstreamError, "vertex: no candidates returned")
	}

	var text strings.Builder
	for _, part := range vr.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	usage := llm.ChatUsage{}
	if vr.UsageMetadata != nil {
		usage = llm.ChatUsage{
			PromptTokens:     vr.UsageMetadata.PromptTokenCount,
			CompletionTokens: vr.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      vr.UsageMetadata.TotalTokenCount,
		}
	}

	return &llm.ChatResponse{
		Provider:  "vertex",
		Model:     model,
		CreatedAt: time.Now(),
		Usage:     usage,
		Choices: []llm.ChatChoice{{
			Index:        0,
			FinishReason: vr.Candidates[0].FinishReason,
			Message:      llm.Message{Role: llm.RoleAssistant, Content: text.String()},
		}},
	}, nil
}

func (p *Provider) Stream(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	return nil, types.NewError(types.ErrServiceUnavailable, "vertex provider does not support streaming in the council")
}
