// Package status parses `git status --porcelain=v2` output into an immutable
// Snapshot consumed by statusline renderers.
package status

// Snapshot contains the parsed result of one git status poll.
type Snapshot struct {
	// Commit is the short identifier of HEAD (empty if unborn).
	Commit string `json:"commit"`

	// Branch is the current branch name (empty if detached).
	Branch string `json:"branch"`

	// UpstreamBranch is the upstream tracking branch name (empty if none).
	UpstreamBranch string `json:"upstream_branch"`

	// Ahead is the number of commits ahead of the upstream branch.
	Ahead int `json:"ahead"`

	// Behind is the number of commits behind the upstream branch.
	Behind int `json:"behind"`

	// Stashed is the number of stash entries.
	Stashed int `json:"stashed"`

	// Staged counts index entries whose index state is not unmodified.
	Staged int `json:"staged"`

	// StagedAdded, StagedDeleted, StagedModified and StagedRenamed break
	// Staged down by index state. They never exceed Staged but do not have
	// to sum to it (unknown index states count only toward Staged).
	StagedAdded    int `json:"staged_added"`
	StagedDeleted  int `json:"staged_deleted"`
	StagedModified int `json:"staged_modified"`
	StagedRenamed  int `json:"staged_renamed"`

	// Modified counts worktree entries modified or type-changed.
	Modified int `json:"modified"`

	// Deleted counts worktree entries deleted.
	Deleted int `json:"deleted"`

	// Renamed counts rename/copy entries.
	Renamed int `json:"renamed"`

	// Conflicted counts unmerged entries.
	Conflicted int `json:"conflicted"`

	// Untracked counts untracked files.
	Untracked int `json:"untracked"`
}

// IsDirty reports whether the working tree has uncommitted changes.
func (s Snapshot) IsDirty() bool {
	return s.Modified > 0 || s.Deleted > 0 || s.Renamed > 0 || s.Untracked > 0
}

// UpToDate reports whether the branch is level with its upstream.
func (s Snapshot) UpToDate() bool {
	return s.Ahead == 0 && s.Behind == 0
}

// UpToDateAndClean reports whether there is nothing to push, pull, or commit.
func (s Snapshot) UpToDateAndClean() bool {
	return s.UpToDate() && !s.IsDirty()
}
