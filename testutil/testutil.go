// Package testutil provides git repository fixtures for tests.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// RequireGit skips the test if git is not available.
func RequireGit(t *testing.T) {
	t.Helper()

	if err := exec.Command("git", "version").Run(); err != nil {
		t.Skip("git not available")
	}
}

// InitGitRepo initializes a git repository in the given directory
// with one commit on a branch named main.
func InitGitRepo(t *testing.T, dir string) {
	t.Helper()

	RunGitCommand(t, dir, "init")
	RunGitCommand(t, dir, "config", "user.name", "Test User")
	RunGitCommand(t, dir, "config", "user.email", "test@example.com")

	testFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(testFile, []byte("# Test Project\n"), 0600); err != nil {
		t.Fatalf("Failed to create README: %v", err)
	}

	RunGitCommand(t, dir, "add", ".")
	RunGitCommand(t, dir, "commit", "-m", "Initial commit")

	// Rename from master if needed
	cmd := exec.Command("git", "branch", "-m", "main")
	cmd.Dir = dir
	_ = cmd.Run()
}

// CreateBranch creates and checks out a new git branch.
func CreateBranch(t *testing.T, dir, branch string) {
	t.Helper()
	RunGitCommand(t, dir, "checkout", "-b", branch)
}

// RandomString generates a random hex string of the specified length.
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}

// RunGitCommand runs a git command in the given directory.
func RunGitCommand(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to run git %v: %v", args, err)
	}
}

// CreateCommit creates a file and commits it.
func CreateCommit(t *testing.T, dir, filename, content string) {
	t.Helper()

	WriteFile(t, dir, filename, content)
	RunGitCommand(t, dir, "add", filename)
	RunGitCommand(t, dir, "commit", "-m", "Add "+filename)
}

// WriteFile writes a file into the repository without staging it.
func WriteFile(t *testing.T, dir, filename, content string) {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create file %s: %v", filename, err)
	}
}

// StageFile writes a file and adds it to the index.
func StageFile(t *testing.T, dir, filename, content string) {
	t.Helper()

	WriteFile(t, dir, filename, content)
	RunGitCommand(t, dir, "add", filename)
}

// CreateStash dirties the worktree and stashes the change.
func CreateStash(t *testing.T, dir string) {
	t.Helper()

	WriteFile(t, dir, "README.md", "# stashed edit\n")
	RunGitCommand(t, dir, "stash", "push", "-m", "test stash")
}
