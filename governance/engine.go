package governance

import (
	"context"
	"fmt"
	"sync"
)

// RoleTurn is one chunked prompt dispatched to a role's reviewer.
type RoleTurn struct {
	Role           Role
	Council        Council
	DiffChunk      string
	ChunkIndex     int
	ChunkTotal     int
	StoryContent   string
	RulesContent   string
	ADRsContent    string
	UserQuestion   string

	// ForcedProvider carries ConveneRequest.ForcedProvider through to the
	// Engine, so a provider pin travels with the request instead of
	// mutating any process-global state.
	ForcedProvider string
}

// Engine dispatches a single role turn to an LLM and returns its raw text
// response in the VERDICT/SUMMARY/FINDINGS/REQUIRED_CHANGES wire format
// that ParseReview expects.
type Engine interface {
	Run(ctx context.Context, turn RoleTurn) (string, error)
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(ctx context.Context, turn RoleTurn) (string, error)

func (f EngineFunc) Run(ctx context.Context, turn RoleTurn) (string, error) { return f(ctx, turn) }

// ProviderResolver is an optional Engine capability: an engine backed by a
// real provider router can report, ahead of issuing any request, which
// provider a turn would be dispatched to. The orchestrator uses this to
// size diff chunks for that provider before the first call goes out,
// rather than after the fact.
type ProviderResolver interface {
	ResolveProvider(forcedProvider string) string
}

var (
	enginesMu sync.RWMutex
	engines   = map[string]Engine{}
)

// RegisterEngine makes an Engine available under name for ConveneRequest.Engine
// to select. Registering "native" overrides the orchestrator's built-in engine.
func RegisterEngine(name string, engine Engine) {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	engines[name] = engine
}

// lookupEngine resolves a registered engine by name. ok is false for an
// unregistered name, letting the caller fall back to native with a warning.
func lookupEngine(name string) (Engine, bool) {
	enginesMu.RLock()
	defer enginesMu.RUnlock()
	e, ok := engines[name]
	return e, ok
}

// RenderPrompt builds the system+user prompt text for one role turn,
// mirroring the council's VERDICT/SUMMARY/FINDINGS/REQUIRED_CHANGES
// instruction contract so any Engine implementation produces parseable
// output.
func RenderPrompt(turn RoleTurn) string {
	mode := "gatekeeper"
	if turn.Council.Mode == ModeConsultative {
		mode = "consultative"
	}

	return fmt.Sprintf(
		"You are %s. Focus: %s. Mode: %s.\n"+
			"Chunk %d/%d of the diff under review.\n\n"+
			"STORY:\n%s\n\nRULES:\n%s\n\nADRS:\n%s\n\nQUESTION:\n%s\n\nDIFF:\n%s\n\n"+
			"Respond strictly as:\nVERDICT: PASS|BLOCK\nSUMMARY: <one line>\n"+
			"FINDINGS:\n- <finding> (Source: <file or ADR>)\nREQUIRED_CHANGES:\n- <change> (Source: <file or ADR>)\n",
		turn.Role.Name, turn.Role.Focus, mode,
		turn.ChunkIndex+1, turn.ChunkTotal,
		turn.StoryContent, turn.RulesContent, turn.ADRsContent, turn.UserQuestion, turn.DiffChunk,
	)
}
