package loop

import (
	"context"

	"github.com/cuggino/cuggino/internal/agent"
	"github.com/cuggino/cuggino/internal/cerrors"
	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/markers"
	"github.com/cuggino/cuggino/internal/session"
)

// phaseOutcome is the terminal marker a single phase invocation produced.
type phaseOutcome struct {
	tag     events.MarkerTag
	content string
}

// runPhase implements the shared phase invocation protocol: spawn the
// agent, feed its output through the Marker Extractor restricted to this
// phase's recognized tags, forward every event to
// out, persist every marker via the session, and return on the first
// terminal marker. A phaseCtx derived from ctx is canceled on every
// return path, which tears down the spawned child promptly instead of
// waiting for it to exit on its own.
func runPhase(ctx context.Context, a agent.Adapter, cwd, systemPrompt, userPrompt string, tags []events.MarkerTag, sess *session.Session, phase cerrors.Phase, out chan<- events.Event) (phaseOutcome, error) {
	phaseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	agentEvents, spawnErrc := a.Spawn(phaseCtx, agent.SpawnOptions{
		Cwd:                        cwd,
		Prompt:                     userPrompt,
		SystemPrompt:               systemPrompt,
		DangerouslySkipPermissions: true,
	})

	done := make(chan struct{})
	defer close(done)
	marked := markers.Stream(agentEvents, markers.Config{Tags: tags}, done)

	for e := range marked {
		select {
		case out <- e:
		case <-ctx.Done():
			return phaseOutcome{}, ctx.Err()
		}

		m, ok := events.AsMarker(e)
		if !ok {
			continue
		}
		if err := sess.AppendMarker(m.Tag(), m.Content()); err != nil {
			return phaseOutcome{}, err
		}
		if events.IsTerminalMarker(m) {
			return phaseOutcome{tag: events.MarkerTag(m.Tag()), content: m.Content()}, nil
		}
	}

	if err := <-spawnErrc; err != nil {
		return phaseOutcome{}, &cerrors.LoopError{Phase: phase, Message: err.Error()}
	}
	return phaseOutcome{}, &cerrors.LoopError{Phase: phase, Message: "non-terminal marker received"}
}

// terminateWithSpecIssue persists a SpecIssue marker's content via
// Storage and emits the loop's terminal LoopSpecIssue event. Every
// phase reaches this on a SpecIssue outcome.
func terminateWithSpecIssue(ctx context.Context, opts Options, out chan<- events.Event, iteration int, content string) (bool, error) {
	filename, err := opts.Storage.WriteSpecIssue(content)
	if err != nil {
		return false, err
	}
	emit(ctx, out, events.LoopSpecIssue{Iteration: iteration, Content: content, Filename: filename})
	return true, nil
}
