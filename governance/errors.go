package governance

import "github.com/jhcook/agentic-governance/types"

// Error codes for the governance subsystem, layered on the framework's
// shared types.Error so callers can use types.IsRetryable / types.GetErrorCode
// uniformly across LLM and governance errors.
const (
	ErrTransientNetwork  types.ErrorCode = "GOV_TRANSIENT_NETWORK"
	ErrProviderTerminal  types.ErrorCode = "GOV_PROVIDER_TERMINAL"
	ErrFatalTransport    types.ErrorCode = "GOV_FATAL_TRANSPORT"
	ErrParse             types.ErrorCode = "GOV_PARSE_ERROR"
	ErrValidationFilter  types.ErrorCode = "GOV_VALIDATION_FILTER"
	ErrReferenceInvalid  types.ErrorCode = "GOV_REFERENCE_INVALID"
	ErrTimeout           types.ErrorCode = "GOV_TIMEOUT"
	ErrConfig            types.ErrorCode = "GOV_CONFIG_ERROR"
)

// newError builds a *types.Error with the given code and cause, following the
// NewError/WithX builder chain types.Error already exposes.
func newError(code types.ErrorCode, msg string, retryable bool, cause error) *types.Error {
	e := types.NewError(code, msg).WithRetryable(retryable)
	if cause != nil {
		e = e.WithCause(cause)
	}
	return e
}

// ErrOllamaNonLoopback is returned when OLLAMA_HOST does not resolve to a
// loopback address; constructing the ollama provider fails closed.
func ErrOllamaNonLoopback(host string) *types.Error {
	return newError(ErrConfig, "ollama host "+host+" is not a loopback address", false, nil)
}

// NewConfigError reports that a provider could not be constructed because
// it lacks required configuration (credentials, executable, etc).
func NewConfigError(provider, msg string) *types.Error {
	e := newError(ErrConfig, provider+": "+msg, false, nil)
	e.Provider = provider
	return e
}
