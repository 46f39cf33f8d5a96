package loop

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cuggino/cuggino/internal/cerrors"
	"github.com/cuggino/cuggino/internal/events"
	"github.com/cuggino/cuggino/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return s
}

// initGitRepo turns dir into a git repository with one empty commit, so a
// loop run against it can resolve a baseline HEAD before its first
// auto-commit.
func initGitRepo(t *testing.T, dir string) {
	t.Helper()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		require.NoError(t, cmd.Run(), "git %v", args)
	}
	run("init")
	run("commit", "--allow-empty", "-m", "initial")
}

// writeFile writes content to name under dir, failing the test on any
// error.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func drainLoop(t *testing.T, out <-chan events.Event, errc <-chan error) ([]events.Event, error) {
	t.Helper()
	var got []events.Event
	var runErr error
	outOpen, errOpen := true, true
	for outOpen || errOpen {
		select {
		case e, ok := <-out:
			if !ok {
				outOpen = false
				out = nil
				continue
			}
			got = append(got, e)
		case err, ok := <-errc:
			if !ok {
				errOpen = false
				errc = nil
				continue
			}
			runErr = err
		case <-time.After(5 * time.Second):
			t.Fatal("timed out draining loop run")
		}
	}
	return got, runErr
}

func tags(got []events.Event) []string {
	out := make([]string, len(got))
	for i, e := range got {
		out[i] = e.Tag()
	}
	return out
}

func TestHappyPathApproval(t *testing.T) {
	st := newTestStorage(t)
	fa := &fakeAdapter{script: []scriptedSpawn{
		{events: []events.Event{marker(events.TagPlanComplete, "ok")}},
		{events: []events.Event{marker(events.TagDone, "added foo")}},
		{events: []events.Event{marker(events.TagApproved, "ok")}},
	}}

	out, errc := Run(context.Background(), Options{
		Focus:        "add foo",
		Cwd:          st.Cwd(),
		SpecsPath:    ".specs",
		CheckCommand: "true",
		Adapter:      fa,
		Storage:      st,
	})
	got, err := drainLoop(t, out, errc)
	require.NoError(t, err)

	require.Equal(t, []string{
		"IterationStart", "PlanningStart", "PLAN_COMPLETE",
		"ImplementingStart", "CheckCommandOutput", "DONE",
		"ReviewingStart", "CheckCommandOutput", "APPROVED",
		"LoopApproved",
	}, tags(got))

	last := got[len(got)-1].(events.LoopApproved)
	require.Equal(t, 1, last.Iteration)
}

func TestProgressLoopReentersImplementing(t *testing.T) {
	st := newTestStorage(t)
	fa := &fakeAdapter{script: []scriptedSpawn{
		{events: []events.Event{marker(events.TagPlanComplete, "ok")}},
		{events: []events.Event{marker(events.TagProgress, "phase 1 done")}},
		{events: []events.Event{marker(events.TagDone, "phase 2 done")}},
		{events: []events.Event{marker(events.TagApproved, "ok")}},
	}}

	out, errc := Run(context.Background(), Options{
		Focus:        "add foo",
		Cwd:          st.Cwd(),
		SpecsPath:    ".specs",
		CheckCommand: "true",
		Commit:       false,
		Adapter:      fa,
		Storage:      st,
	})
	got, err := drainLoop(t, out, errc)
	require.NoError(t, err)

	require.Equal(t, []string{
		"IterationStart", "PlanningStart", "PLAN_COMPLETE",
		"ImplementingStart", "CheckCommandOutput", "PROGRESS",
		"ImplementingStart", "CheckCommandOutput", "DONE",
		"ReviewingStart", "CheckCommandOutput", "APPROVED",
		"LoopApproved",
	}, tags(got))
}

func TestProgressLoopCommitsOnProgressAndDone(t *testing.T) {
	st := newTestStorage(t)
	initGitRepo(t, st.Cwd())

	n := 0
	fa := &fakeAdapter{script: []scriptedSpawn{
		{events: []events.Event{marker(events.TagPlanComplete, "ok")}},
		{
			events: []events.Event{marker(events.TagProgress, "phase 1 done")},
			sideEffect: func() {
				n++
				writeFile(t, st.Cwd(), "work.txt", "phase 1")
			},
		},
		{
			events: []events.Event{marker(events.TagDone, "phase 2 done")},
			sideEffect: func() {
				n++
				writeFile(t, st.Cwd(), "work.txt", "phase 2")
			},
		},
		{events: []events.Event{marker(events.TagApproved, "ok")}},
	}}

	out, errc := Run(context.Background(), Options{
		Focus:        "add foo",
		Cwd:          st.Cwd(),
		SpecsPath:    ".specs",
		CheckCommand: "true",
		Commit:       true,
		Adapter:      fa,
		Storage:      st,
	})
	got, err := drainLoop(t, out, errc)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.Equal(t, []string{
		"IterationStart", "PlanningStart", "PLAN_COMPLETE",
		"ImplementingStart", "CheckCommandOutput", "PROGRESS", "CommitPerformed",
		"ImplementingStart", "CheckCommandOutput", "DONE", "CommitPerformed",
		"ReviewingStart", "CheckCommandOutput", "APPROVED",
		"LoopApproved",
	}, tags(got))

	var commits []events.CommitPerformed
	for _, e := range got {
		if c, ok := e.(events.CommitPerformed); ok {
			commits = append(commits, c)
		}
	}
	require.Len(t, commits, 2)
	require.Equal(t, "phase 1 done", commits[0].Message)
	require.Equal(t, "phase 2 done", commits[1].Message)
	require.NotEmpty(t, commits[0].Hash)
	require.NotEmpty(t, commits[1].Hash)
	require.NotEqual(t, commits[0].Hash, commits[1].Hash)
}

func TestSpecIssueDuringPlanningAborts(t *testing.T) {
	st := newTestStorage(t)
	fa := &fakeAdapter{script: []scriptedSpawn{
		{events: []events.Event{marker(events.TagSpecIssue, "clarify X")}},
	}}

	out, errc := Run(context.Background(), Options{
		Focus:     "add foo",
		Cwd:       st.Cwd(),
		SpecsPath: ".specs",
		Adapter:   fa,
		Storage:   st,
	})
	got, err := drainLoop(t, out, errc)
	require.NoError(t, err)

	require.Equal(t, []string{"IterationStart", "PlanningStart", "SPEC_ISSUE", "LoopSpecIssue"}, tags(got))

	loopSpecIssue := got[len(got)-1].(events.LoopSpecIssue)
	require.Equal(t, "clarify X", loopSpecIssue.Content)

	entries, err := os.ReadDir(st.SpecIssuesPath())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, loopSpecIssue.Filename, entries[0].Name())
	body, err := os.ReadFile(filepath.Join(st.SpecIssuesPath(), entries[0].Name()))
	require.NoError(t, err)
	require.Equal(t, "clarify X", string(body))
}

func TestMaxIterationsReachedOnRepeatedRequestChanges(t *testing.T) {
	st := newTestStorage(t)
	fa := &fakeAdapter{script: []scriptedSpawn{
		{events: []events.Event{marker(events.TagPlanComplete, "ok")}},
		{events: []events.Event{marker(events.TagDone, "first pass")}},
		{events: []events.Event{marker(events.TagRequestChanges, "fix")}},
		{events: []events.Event{marker(events.TagPlanComplete, "ok")}},
		{events: []events.Event{marker(events.TagDone, "second pass")}},
		{events: []events.Event{marker(events.TagRequestChanges, "fix")}},
	}}

	out, errc := Run(context.Background(), Options{
		Focus:         "add foo",
		Cwd:           st.Cwd(),
		SpecsPath:     ".specs",
		MaxIterations: 2,
		Adapter:       fa,
		Storage:       st,
	})
	got, err := drainLoop(t, out, errc)
	require.NoError(t, err)

	last := got[len(got)-1]
	require.Equal(t, "LoopMaxIterations", last.Tag())
	maxEvt := last.(events.LoopMaxIterations)
	require.Equal(t, 2, maxEvt.Iteration)
	require.Equal(t, 2, maxEvt.Max)
}

func TestSessionFilesRemovedAfterRun(t *testing.T) {
	st := newTestStorage(t)
	fa := &fakeAdapter{script: []scriptedSpawn{
		{events: []events.Event{marker(events.TagPlanComplete, "ok")}},
		{events: []events.Event{marker(events.TagDone, "added foo")}},
		{events: []events.Event{marker(events.TagApproved, "ok")}},
	}}

	out, errc := Run(context.Background(), Options{
		Focus:     "add foo",
		Cwd:       st.Cwd(),
		SpecsPath: ".specs",
		Adapter:   fa,
		Storage:   st,
	})
	_, err := drainLoop(t, out, errc)
	require.NoError(t, err)

	entries, err := os.ReadDir(st.WipPath())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestNonTerminalStreamEndFailsWithLoopError(t *testing.T) {
	st := newTestStorage(t)
	fa := &fakeAdapter{script: []scriptedSpawn{
		{events: []events.Event{events.AgentMessage{Text: "I am still thinking, no marker yet."}}},
	}}

	out, errc := Run(context.Background(), Options{
		Focus:     "add foo",
		Cwd:       st.Cwd(),
		SpecsPath: ".specs",
		Adapter:   fa,
		Storage:   st,
	})
	_, err := drainLoop(t, out, errc)
	var loopErr *cerrors.LoopError
	require.ErrorAs(t, err, &loopErr)
}
