// Package agent implements the Agent Adapter: spawning an external LLM
// CLI as a subprocess and translating its newline-delimited JSON stdout
// into the events.Event taxonomy. Two concrete backends are supported:
// dialect A is document-centric (Claude-Code-shaped), dialect B is
// event-centric (Codex-shaped).
package agent

import (
	"context"

	"github.com/cuggino/cuggino/internal/events"
)

// Backend selects which concrete CLI dialect an Adapter speaks.
type Backend string

const (
	BackendA Backend = "a" // document-centric, Claude-Code-shaped
	BackendB Backend = "b" // event-centric, Codex-shaped
)

// SpawnOptions configures a non-interactive agent run.
type SpawnOptions struct {
	Cwd                        string
	Prompt                     string
	SystemPrompt               string
	DangerouslySkipPermissions bool
	SessionID                  string
	ResumeSessionID            string
}

// InteractiveOptions configures an interactive agent run attached to the
// controlling terminal.
type InteractiveOptions struct {
	Cwd                        string
	SystemPrompt               string
	DangerouslySkipPermissions bool
}

// Adapter abstracts over the two agent invocation shapes: spawn a
// non-interactive agent and stream its events, or attach an interactive
// agent to the terminal and wait for its exit code.
type Adapter interface {
	// Spawn launches the agent and returns its event stream plus an error
	// channel that carries at most one LlmSessionError before closing.
	// The returned event channel is closed when the stream ends, whether
	// normally or on error; ctx cancellation terminates the child process.
	Spawn(ctx context.Context, opts SpawnOptions) (<-chan events.Event, <-chan error)

	// Interactive attaches the child's stdio to the controlling terminal
	// and blocks until it exits, returning its exit code.
	Interactive(ctx context.Context, opts InteractiveOptions) (int, error)
}

// New constructs the Adapter for the given backend, resolving bin as the
// CLI executable name (e.g. "claude" for BackendA, "codex" for BackendB).
func New(backend Backend, bin string) Adapter {
	switch backend {
	case BackendB:
		return &dialectB{bin: bin}
	default:
		return &dialectA{bin: bin}
	}
}
