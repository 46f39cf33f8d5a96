package watch

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cuggino/cuggino/internal/cerrors"
	"github.com/cuggino/cuggino/internal/events"
)

// debounceWindow is the quiescence period after a filesystem event before
// the idle phase resamples. Var, not const, so tests can shrink it.
var debounceWindow = 30 * time.Second

// counts is one sample of the two watched directories' visible (non
// dotfile) entry counts.
type counts struct {
	specIssues int
	backlog    int
}

func countVisible(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		name := e.Name()
		if len(name) > 0 && name[0] == '.' {
			continue
		}
		n++
	}
	return n
}

func sample(specIssuesDir, backlogDir string) counts {
	return counts{specIssues: countVisible(specIssuesDir), backlog: countVisible(backlogDir)}
}

func ready(c counts) bool { return c.specIssues == 0 && c.backlog > 0 }

// idlePhase blocks, watching specIssuesDir and backlogDir, until the exit
// condition specIssueCount==0 && backlogCount>0 holds. It announces
// SpecIssueWaiting/BacklogWaiting sub-state transitions (once per entry,
// not on every identical sample) and dispatches a notification alongside
// each announcement.
func idlePhase(ctx context.Context, specIssuesDir, backlogDir string, out chan<- events.Event, notifier Notifier) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &cerrors.WatchError{Message: err.Error()}
	}
	defer watcher.Close()
	for _, dir := range []string{specIssuesDir, backlogDir} {
		if err := watcher.Add(dir); err != nil {
			return &cerrors.WatchError{Message: err.Error()}
		}
	}

	announced := ""
	announce := func(c counts) {
		switch {
		case c.specIssues > 0:
			if announced != "specissue" {
				emit(ctx, out, events.SpecIssueWaiting{})
				notifier.Notify("cuggino", "a spec issue needs your attention")
				announced = "specissue"
			}
		case c.backlog == 0:
			if announced != "backlog" {
				emit(ctx, out, events.BacklogWaiting{})
				notifier.Notify("cuggino", "the backlog is empty")
				announced = "backlog"
			}
		default:
			announced = ""
		}
	}

	last := sample(specIssuesDir, backlogDir)
	if ready(last) {
		return nil
	}
	announce(last)

	var debounce *time.Timer
	var debounceC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-watcher.Events:
			if !ok {
				return &cerrors.WatchError{Message: "fsnotify event stream closed"}
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceWindow)
			} else {
				debounce.Reset(debounceWindow)
			}
			debounceC = debounce.C
		case werr, ok := <-watcher.Errors:
			if !ok {
				return &cerrors.WatchError{Message: "fsnotify error stream closed"}
			}
			return &cerrors.WatchError{Message: werr.Error()}
		case <-debounceC:
			debounceC = nil
			current := sample(specIssuesDir, backlogDir)
			if current == last {
				continue
			}
			last = current
			if ready(current) {
				return nil
			}
			announce(current)
		}
	}
}
