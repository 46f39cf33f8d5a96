// Package watch implements the Watch Supervisor: a top-level loop that
// waits for ready backlog work, drives the Loop
// Engine against the first picked item, and disposes of the backlog
// file based on its terminal outcome and a content-hash comparison
// against concurrent human edits. When enabled, an audit side-channel
// fiber runs during the idle phase and is interrupted the moment work
// arrives.
package watch

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cuggino/cuggino/internal/agent"
	"github.com/cuggino/cuggino/internal/cerrors"
	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/loop"
	"github.com/cuggino/cuggino/internal/storage"
)

// Options configures the Watch Supervisor.
type Options struct {
	Cwd           string
	SpecsPath     string
	MaxIterations int
	SetupCommand  string
	CheckCommand  string
	Commit        bool
	Push          string
	Audit         bool
	Adapter       agent.Adapter
	AuditAdapter  agent.Adapter // defaults to Adapter when nil
	Storage       *storage.Storage
	Notifier      Notifier
}

// Run drives the Watch Supervisor until ctx is canceled or an
// unrecoverable WatchError/LoopError/StorageError/SessionError occurs.
func Run(ctx context.Context, opts Options) (<-chan events.Event, <-chan error) {
	out := make(chan events.Event)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		if err := run(ctx, opts, out); err != nil {
			errc <- err
		}
	}()
	return out, errc
}

func run(ctx context.Context, opts Options, out chan<- events.Event) error {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := runIdlePhaseWithAudit(ctx, opts, out, notifier); err != nil {
			return err
		}

		name, ok, rerr := pickBacklogItem(opts.Storage.BacklogPath())
		if rerr != nil {
			return &cerrors.WatchError{Message: rerr.Error()}
		}
		if !ok {
			// Lost the race between the idle phase's exit sample and the
			// pick (e.g. the file vanished in between); resample.
			continue
		}

		if err := runWorkPhase(ctx, opts, out, name); err != nil {
			return err
		}
	}
}

// runIdlePhaseWithAudit implements the acquire/use/release pattern for
// the audit fiber: acquire starts it, use is the idle phase, release
// cancels it and waits for it to unwind before work proceeds.
func runIdlePhaseWithAudit(ctx context.Context, opts Options, out chan<- events.Event, notifier Notifier) error {
	idleCtx, cancelIdle := context.WithCancel(ctx)
	defer cancelIdle()

	var g *errgroup.Group
	if opts.Audit {
		var auditCtx context.Context
		g, auditCtx = errgroup.WithContext(idleCtx)
		g.Go(func() error {
			runAudit(auditCtx, ctx, opts, out)
			return nil
		})
	}

	err := idlePhase(idleCtx, opts.Storage.SpecIssuesPath(), opts.Storage.BacklogPath(), out, notifier)
	cancelIdle()
	if g != nil {
		_ = g.Wait()
	}
	return err
}

func runWorkPhase(ctx context.Context, opts Options, out chan<- events.Event, name string) error {
	path := filepath.Join(opts.Storage.BacklogPath(), name)
	original, err := os.ReadFile(path)
	if err != nil {
		return &cerrors.WatchError{Message: err.Error()}
	}
	originalHash := contentHash(original)

	emit(ctx, out, events.ProcessingItem{Filename: name})

	loopOut, loopErrc := loop.Run(ctx, loop.Options{
		Focus:         "@" + path,
		Cwd:           opts.Cwd,
		SpecsPath:     opts.SpecsPath,
		MaxIterations: opts.MaxIterations,
		SetupCommand:  opts.SetupCommand,
		CheckCommand:  opts.CheckCommand,
		Commit:        opts.Commit,
		Push:          opts.Push,
		Adapter:       opts.Adapter,
		Storage:       opts.Storage,
	})

	var outcome events.LoopPhaseEvent
	for e := range loopOut {
		emit(ctx, out, e)
		if lp, ok := events.AsLoopPhase(e); ok && events.IsTerminalLoopPhase(lp) {
			outcome = lp
		}
	}
	if err := <-loopErrc; err != nil {
		return err
	}

	return disposition(ctx, out, path, name, originalHash, outcome)
}

func emit(ctx context.Context, out chan<- events.Event, e events.Event) {
	select {
	case out <- e:
	case <-ctx.Done():
	}
}
