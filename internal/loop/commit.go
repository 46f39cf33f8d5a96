package loop

import (
	"context"

	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/git"
)

// autoCommit stages everything except specsPath, skips silently if
// nothing staged, commits with message, and emits CommitPerformed. Any
// step's failure emits CommitFailed and returns false rather than
// failing the run.
func autoCommit(ctx context.Context, g *git.Git, specsPath, message string, iteration int, out chan<- events.Event) bool {
	if g == nil {
		emit(ctx, out, events.CommitFailed{Iteration: iteration, Message: "git is unavailable"})
		return false
	}
	if err := g.StageAllExcept(ctx, specsPath); err != nil {
		emit(ctx, out, events.CommitFailed{Iteration: iteration, Message: err.Error()})
		return false
	}
	staged, err := g.HasStagedChanges(ctx)
	if err != nil {
		emit(ctx, out, events.CommitFailed{Iteration: iteration, Message: err.Error()})
		return false
	}
	if !staged {
		return false
	}
	if err := g.Commit(ctx, message); err != nil {
		emit(ctx, out, events.CommitFailed{Iteration: iteration, Message: err.Error()})
		return false
	}
	hash, err := g.ShortHead(ctx)
	if err != nil {
		emit(ctx, out, events.CommitFailed{Iteration: iteration, Message: err.Error()})
		return false
	}
	emit(ctx, out, events.CommitPerformed{Iteration: iteration, Hash: hash, Message: message})
	return true
}

// autoPush pushes HEAD to the remote/branch pair encoded in pushTarget,
// following a successful auto-commit.
func autoPush(ctx context.Context, g *git.Git, pushTarget string, iteration int, out chan<- events.Event) {
	remote, branch, err := git.ParseRemoteBranch(pushTarget)
	if err != nil {
		emit(ctx, out, events.PushFailed{Iteration: iteration, Message: err.Error()})
		return
	}
	if err := g.Push(ctx, remote, branch); err != nil {
		emit(ctx, out, events.PushFailed{Iteration: iteration, Message: err.Error()})
		return
	}
	emit(ctx, out, events.PushPerformed{Iteration: iteration, Remote: remote, Branch: branch})
}
