// Package loop implements the Loop Engine: the
// Plan→Implement→Review state machine with its embedded Implementing
// inner progress loop, check/setup command invocation, auto-commit and
// push, and review-feedback carry-forward between iterations.
package loop

import (
	"context"
	"os"

	"github.com/cuggino/cuggino/internal/agent"
	"github.com/cuggino/cuggino/internal/cerrors"
	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/git"
	"github.com/cuggino/cuggino/internal/session"
	"github.com/cuggino/cuggino/internal/storage"
)

const defaultMaxIterations = 10

// Options configures one loop run. Adapter and Storage are the Loop
// Engine's two collaborators, injected so callers (and tests) can supply
// a fake Adapter without spawning a real subprocess.
type Options struct {
	Focus         string
	Cwd           string
	SpecsPath     string
	MaxIterations int
	SetupCommand  string
	CheckCommand  string
	Commit        bool
	Push          string
	Adapter       agent.Adapter
	Storage       *storage.Storage
}

// Run drives one loop run to completion: Planning, the Implementing
// inner loop, Reviewing, and back around on RequestChanges, until a
// terminal outcome (LoopApproved, LoopSpecIssue, or LoopMaxIterations)
// ends the stream. The returned error channel carries at most one error
// — a LoopError, SessionError, or StorageError, or ctx's error when ctx
// is canceled while a phase is forwarding events — before closing.
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
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	sess, err := session.New(opts.Storage.WipPath(), storage.NewSessionID())
	if err != nil {
		return err
	}
	defer sess.Close()

	var gitClient *git.Git
	var baselineCommit string
	if opts.Commit {
		if gc, gitErr := git.New(ctx, opts.Cwd); gitErr == nil {
			gitClient = gc
			baselineCommit, _ = gitClient.HeadCommit(ctx)
		}
		// A git.New failure here is not fatal: auto-commit degrades to
		// emitting CommitFailed on the first attempt rather than aborting
		// the run.
	}

	if opts.SetupCommand != "" {
		output, exitCode := runShell(ctx, opts.Cwd, opts.SetupCommand)
		if werr := os.WriteFile(sess.SetupOutputPath(), []byte(output), 0o644); werr != nil {
			return &cerrors.SessionError{Operation: "writeSetupOutput", SessionID: sess.ID(), Err: werr}
		}
		emit(ctx, out, events.SetupCommandOutput{Iteration: 0, Output: output, ExitCode: exitCode, FilePath: sess.SetupOutputPath()})
	}

	var reviewText string
	hasReview := false

	for i := 1; i <= maxIterations; i++ {
		emit(ctx, out, events.IterationStart{Iteration: i, Max: maxIterations})

		terminate, err := planPhase(ctx, opts, sess, out, i, reviewText, hasReview)
		if err != nil {
			return err
		}
		if terminate {
			return nil
		}

		terminate, err = implementPhase(ctx, opts, sess, out, i, gitClient)
		if err != nil {
			return err
		}
		if terminate {
			return nil
		}

		terminate, changes, err := reviewPhase(ctx, opts, sess, out, i, gitClient, baselineCommit)
		if err != nil {
			return err
		}
		if terminate {
			return nil
		}
		reviewText, hasReview = changes, true
	}

	emit(ctx, out, events.LoopMaxIterations{Iteration: maxIterations, Max: maxIterations})
	return nil
}

func emit(ctx context.Context, out chan<- events.Event, e events.Event) {
	select {
	case out <- e:
	case <-ctx.Done():
	}
}
