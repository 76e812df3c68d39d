package provider

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"

	"github.com/jhcook/agentic-governance/governance"
	"github.com/jhcook/agentic-governance/llm"
	"github.com/jhcook/agentic-governance/types"
	"go.uber.org/zap"
)

// Request wraps an llm.ChatRequest with fallback controls. Provider, when
// set, is tried first, ahead of the rest of FallbackOrder; with
// DisableFallback it is tried alone. DisableFallback without a Provider
// limits the chain to the first entry of FallbackOrder.
type Request struct {
	*llm.ChatRequest
	Provider        string
	DisableFallback bool
}

// FallbackChain drives a request through FallbackOrder, skipping
// unconfigured providers and stopping at the first one that returns a
// response. A forced Provider is tried first, then the rest of the order
// unless DisableFallback is set.
type FallbackChain struct {
	router *Router
	logger *zap.Logger
}

// NewFallbackChain builds a FallbackChain over router.
func NewFallbackChain(router *Router, logger *zap.Logger) *FallbackChain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackChain{router: router, logger: logger}
}

// Complete resolves req against the fallback order and returns the first
// provider's response, or the last terminal error if every candidate is
// unconfigured or fails.
func (f *FallbackChain) Complete(ctx context.Context, req Request) (*llm.ChatResponse, string, error) {
	order := FallbackOrder
	if req.Provider != "" {
		order = []string{req.Provider}
		if !req.DisableFallback {
			for _, name := range FallbackOrder {
				if name != req.Provider {
					order = append(order, name)
				}
			}
		}
	} else if req.DisableFallback {
		order = FallbackOrder[:1]
	}

	var lastErr error
	for _, name := range order {
		if name != req.Provider && !f.router.Configured(name) {
			f.logger.Debug("provider not configured, skipping", zap.String("provider", name))
			continue
		}

		p, err := f.router.Get(name)
		if err != nil {
			lastErr = err
			continue
		}

		resp, err := p.Completion(ctx, req.ChatRequest)
		if err == nil {
			return resp, name, nil
		}

		lastErr = err
		if isFatalTransport(err) {
			f.logger.Warn("fatal transport error, aborting fallback", zap.String("provider", name), zap.Error(err))
			return nil, "", types.NewError(governance.ErrFatalTransport, "fatal transport error from provider "+name).WithCause(err)
		}
		f.logger.Info("provider failed, trying next in fallback order", zap.String("provider", name), zap.Error(err))
	}

	if lastErr == nil {
		lastErr = governance.NewConfigError("fallback", "no provider in the fallback order is configured")
	}
	return nil, "", lastErr
}

// isFatalTransport reports whether err represents a transport-level
// failure (TLS/certificate validation) that indicates a misconfigured
// environment rather than a single provider outage, so the chain stops
// instead of burning through every remaining candidate with the same
// failure.
func isFatalTransport(err error) bool {
	var certErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var tlsRecordErr tls.RecordHeaderError
	return errors.As(err, &certErr) || errors.As(err, &hostErr) || errors.As(err, &tlsRecordErr)
}
