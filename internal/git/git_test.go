package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
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
	return dir
}

func TestStageAllExceptAndCommit(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	g, err := New(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".specs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".specs", "b.txt"), []byte("b"), 0o644))

	require.NoError(t, g.StageAllExcept(ctx, ".specs"))

	hasStaged, err := g.HasStagedChanges(ctx)
	require.NoError(t, err)
	require.True(t, hasStaged)

	require.NoError(t, g.Commit(ctx, "add a.txt"))

	hasStaged, err = g.HasStagedChanges(ctx)
	require.NoError(t, err)
	require.False(t, hasStaged)

	head, err := g.HeadCommit(ctx)
	require.NoError(t, err)
	require.Len(t, head, 40)

	short, err := g.ShortHead(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, short)
	require.Less(t, len(short), len(head))
}

func TestHasStagedChangesNoneStaged(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	g, err := New(ctx, dir)
	require.NoError(t, err)

	hasStaged, err := g.HasStagedChanges(ctx)
	require.NoError(t, err)
	require.False(t, hasStaged)
}

// initBareRepo creates a bare repository suitable for use as a push
// target, returning its path.
func initBareRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "--bare", dir)
	require.NoError(t, cmd.Run())
	return dir
}

func addRemote(t *testing.T, repoDir, name, target string) {
	t.Helper()
	cmd := exec.Command("git", "remote", "add", name, target)
	cmd.Dir = repoDir
	require.NoError(t, cmd.Run())
}

func TestPushSucceedsToConfiguredRemote(t *testing.T) {
	dir := initRepo(t)
	bareDir := initBareRepo(t)
	addRemote(t, dir, "origin", bareDir)

	ctx := context.Background()
	g, err := New(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, g.Push(ctx, "origin", "main"))

	cmd := exec.Command("git", "rev-parse", "main")
	cmd.Dir = bareDir
	out, err := cmd.Output()
	require.NoError(t, err)

	head, err := g.HeadCommit(ctx)
	require.NoError(t, err)
	require.Equal(t, head, strings.TrimSpace(string(out)))
}

func TestPushFailsForUnknownRemote(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	g, err := New(ctx, dir)
	require.NoError(t, err)

	err = g.Push(ctx, "nonexistent", "main")
	require.Error(t, err)
}

func TestParseRemoteBranch(t *testing.T) {
	remote, branch, err := ParseRemoteBranch("origin/main")
	require.NoError(t, err)
	require.Equal(t, "origin", remote)
	require.Equal(t, "main", branch)

	_, _, err = ParseRemoteBranch("nomatch")
	require.Error(t, err)

	_, _, err = ParseRemoteBranch("origin/feature/x")
	require.NoError(t, err)
}
