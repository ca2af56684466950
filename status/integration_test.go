package status_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/gitstatus/command"
	"github.com/grovetools/gitstatus/status"
	"github.com/grovetools/gitstatus/testutil"
)

func pollOnce(t *testing.T, dir string) status.Snapshot {
	t.Helper()

	runner := command.NewRunner()
	res, err := runner.Run(context.Background(), dir, 5*time.Second, "git",
		"status", "--porcelain=v2", "--branch", "--show-stash", "--untracked-files=all")
	require.NoError(t, err)
	require.False(t, res.TimedOut)
	require.Equal(t, 0, res.ExitCode)

	return status.Parse(res.Stdout)
}

func TestParseAgainstRealRepository(t *testing.T) {
	testutil.RequireGit(t)

	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)

	snap := pollOnce(t, dir)
	assert.Equal(t, "main", snap.Branch)
	assert.NotEmpty(t, snap.Commit)
	assert.False(t, snap.IsDirty())

	testutil.WriteFile(t, dir, "untracked.txt", "hello\n")
	testutil.StageFile(t, dir, "staged.txt", "staged\n")
	testutil.WriteFile(t, dir, "README.md", "# edited\n")

	snap = pollOnce(t, dir)
	assert.Equal(t, 1, snap.Untracked)
	assert.Equal(t, 1, snap.Staged)
	assert.Equal(t, 1, snap.StagedAdded)
	assert.Equal(t, 1, snap.Modified)
	assert.True(t, snap.IsDirty())
}

func TestParseRealStash(t *testing.T) {
	testutil.RequireGit(t)

	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)
	testutil.CreateStash(t, dir)

	snap := pollOnce(t, dir)
	assert.Equal(t, 1, snap.Stashed)
	assert.False(t, snap.IsDirty())
}

func TestParseRealBranch(t *testing.T) {
	testutil.RequireGit(t)

	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)
	testutil.CreateBranch(t, dir, "feature/"+testutil.RandomString(6))
	testutil.CreateCommit(t, dir, "feature.txt", "feature\n")

	snap := pollOnce(t, dir)
	assert.Contains(t, snap.Branch, "feature/")
	assert.False(t, snap.IsDirty())
}
