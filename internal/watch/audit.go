package watch

import (
	"context"
	"time"

	"github.com/cuggino/cuggino/internal/agent"
	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/markers"
	"github.com/cuggino/cuggino/internal/prompts"
)

// auditGraceDelay is the pause before the audit fiber spawns its agent,
// so a backlog item that's already ready doesn't race an audit spawn for
// nothing. Var, not const, so tests can shrink it.
var auditGraceDelay = 1 * time.Second

var auditTags = []events.MarkerTag{events.TagToBeDiscussed}

// runAudit is the audit side-channel fiber. stopCtx is canceled the
// instant the idle phase exits, for any reason; lifeCtx is
// the Watch Supervisor's own run context, used only to guard event sends
// so a final AuditEnded/AuditInterrupted still reaches out even after
// stopCtx fires. Audit failures are swallowed: this fiber never returns
// an error.
func runAudit(stopCtx, lifeCtx context.Context, opts Options, out chan<- events.Event) {
	timer := time.NewTimer(auditGraceDelay)
	defer timer.Stop()
	select {
	case <-stopCtx.Done():
		emit(lifeCtx, out, events.AuditInterrupted{})
		return
	case <-timer.C:
	}

	emit(lifeCtx, out, events.AuditStarted{})

	a := opts.AuditAdapter
	if a == nil {
		a = opts.Adapter
	}

	systemPrompt := prompts.AuditSystem(prompts.AuditInput{
		SpecsPath:   opts.SpecsPath,
		BacklogPath: opts.Storage.BacklogPath(),
	})

	agentEvents, _ := a.Spawn(stopCtx, agent.SpawnOptions{
		Cwd:                        opts.Cwd,
		Prompt:                     prompts.AuditPrompt(),
		SystemPrompt:               systemPrompt,
		DangerouslySkipPermissions: true,
	})

	done := make(chan struct{})
	defer close(done)
	marked := markers.Stream(agentEvents, markers.Config{Tags: auditTags}, done)

	for e := range marked {
		m, ok := events.AsMarker(e)
		if !ok {
			continue
		}
		tbd, ok := m.(events.ToBeDiscussed)
		if !ok {
			continue
		}
		filename, err := opts.Storage.WriteTbdItem(tbd.Content())
		if err != nil {
			continue
		}
		emit(lifeCtx, out, events.TbdItemFound{Content: tbd.Content(), Filename: filename})
	}

	if stopCtx.Err() != nil {
		emit(lifeCtx, out, events.AuditInterrupted{})
	} else {
		emit(lifeCtx, out, events.AuditEnded{})
	}
}
