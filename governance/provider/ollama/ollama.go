// Package ollama embeds the framework's OpenAI-compatible provider base
// to talk to a local Ollama daemon, with a loopback-only guard: governance
// findings may carry repository contents, and routing them to a remote
// OLLAMA_HOST would be an unannounced data exfiltration path.
package ollama

import (
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jhcook/agentic-governance/governance"
	"github.com/jhcook/agentic-governance/llm/providers/openaicompat"
	"go.uber.org/zap"
)

// Config configures the Ollama adapter. Host defaults to the daemon's
// standard local address.
type Config struct {
	Host  string
	Model string
}

const defaultHost = "http://127.0.0.1:11434"

// New builds an ollama-backed provider on top of openaicompat.Provider.
// It refuses to construct a provider pointed at a non-loopback host.
func New(cfg Config, logger *zap.Logger) (*openaicompat.Provider, error) {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	if err := requireLoopback(host); err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = "llama3.1"
	}

	return openaicompat.New(openaicompat.Config{
		ProviderName:  "ollama",
		BaseURL:       host,
		DefaultModel:  model,
		FallbackModel: model,
		Timeout:       120 * time.Second,
		EndpointPath:  "/v1/chat/completions",
		ModelsEndpoint: "/v1/models",
	}, logger), nil
}

func requireLoopback(host string) error {
	u, err := url.Parse(host)
	if err != nil {
		return governance.ErrOllamaNonLoopback(host)
	}
	hostname := u.Hostname()
	if hostname == "" {
		hostname = host
	}
	if strings.EqualFold(hostname, "localhost") {
		return nil
	}
	ip := net.ParseIP(hostname)
	if ip != nil && ip.IsLoopback() {
		return nil
	}
	return governance.ErrOllamaNonLoopback(host)
}
