// Package cerrors defines the tagged error kinds raised by the coder-loop
// engine. Each kind is a small struct with a stable
// discriminator so callers can type-switch on failure without parsing
// error strings.
package cerrors

import "fmt"

// LlmSessionError is raised by the Agent Adapter when a spawned agent
// process emits a terminal error record or its output cannot be decoded.
type LlmSessionError struct {
	Message string
}

func (e *LlmSessionError) Error() string { return fmt.Sprintf("llm session error: %s", e.Message) }

// StorageError is raised by Storage on any I/O failure.
type StorageError struct {
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SessionError is raised by Session on any I/O failure against its
// per-run scratch files.
type SessionError struct {
	Operation string
	SessionID string
	Err       error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session error during %s (session %s): %v", e.Operation, e.SessionID, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// Phase identifies which loop phase an error originated from.
type Phase string

const (
	PhasePlanning     Phase = "planning"
	PhaseImplementing Phase = "implementing"
	PhaseReviewing    Phase = "reviewing"
)

// LoopError is raised by the Loop Engine: an agent subprocess error, or a
// phase's output stream ending without a terminal marker.
type LoopError struct {
	Phase   Phase
	Message string
}

func (e *LoopError) Error() string {
	return fmt.Sprintf("loop error in %s phase: %s", e.Phase, e.Message)
}

// WatchError is raised by the Watch Supervisor.
type WatchError struct {
	Message string
}

func (e *WatchError) Error() string { return fmt.Sprintf("watch error: %s", e.Message) }
