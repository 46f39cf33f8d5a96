package watch

import (
	"context"
	"os"

	"github.com/cuggino/cuggino/internal/cerrors"
	"github.com/cuggino/cuggino/internal/events"
)

// disposition implements the watch cycle's disposition phase: a backlog
// item is removed only if its content is still byte-identical to what
// the work phase read before driving the loop against it. A concurrent
// human edit retains the file so nothing is silently lost. A
// LoopSpecIssue outcome leaves the backlog file untouched; the new
// spec-issue file is what the next idle phase reacts to.
func disposition(ctx context.Context, out chan<- events.Event, path, name string, originalHash uint64, outcome events.LoopPhaseEvent) error {
	switch outcome.(type) {
	case events.LoopApproved, events.LoopMaxIterations:
		current, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return &cerrors.WatchError{Message: err.Error()}
		}
		if contentHash(current) == originalHash {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return &cerrors.WatchError{Message: err.Error()}
			}
			emit(ctx, out, events.ItemCompleted{Filename: name})
		} else {
			emit(ctx, out, events.ItemRetained{Filename: name})
		}
	case events.LoopSpecIssue:
		// Nothing to do here; the backlog item stays put until the spec
		// issue is resolved and the item is re-picked in a later pass.
	}
	return nil
}
