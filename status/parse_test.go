package status

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBranchHeaders(t *testing.T) {
	raw := strings.Join([]string{
		"# branch.oid 3fa2c8f9e1d4b7a6c5e8d9f0a1b2c3d4e5f6a7b8",
		"# branch.head main",
		"# branch.upstream origin/main",
		"# branch.ab +2 -3",
		"# stash 4",
		"",
	}, "\n")

	snap := Parse(raw)
	assert.Equal(t, "3fa2c8", snap.Commit)
	assert.Equal(t, "main", snap.Branch)
	assert.Equal(t, "origin/main", snap.UpstreamBranch)
	assert.Equal(t, 2, snap.Ahead)
	assert.Equal(t, 3, snap.Behind)
	assert.Equal(t, 4, snap.Stashed)
}

func TestParseAheadBehindNoChanges(t *testing.T) {
	// Scenario: diverged branch with a clean tree
	snap := Parse("# branch.ab +2 -3\n")
	assert.Equal(t, 2, snap.Ahead)
	assert.Equal(t, 3, snap.Behind)
	assert.False(t, snap.UpToDate())
	assert.False(t, snap.IsDirty())
}

func TestParseWorktreeModified(t *testing.T) {
	// Index unmodified, worktree modified
	snap := Parse("1 .M N... 100644 100644 100644 abc123 abc123 file.txt\n")
	assert.Equal(t, 0, snap.Staged)
	assert.Equal(t, 1, snap.Modified)
}

func TestParseStagedAdded(t *testing.T) {
	// Index added, worktree unmodified
	snap := Parse("1 A. N... 000000 100644 100644 000000 abc123 new.txt\n")
	assert.Equal(t, 1, snap.Staged)
	assert.Equal(t, 1, snap.StagedAdded)
	assert.Equal(t, 0, snap.Modified)
}

func TestParseUntracked(t *testing.T) {
	snap := Parse("? scratch.txt\n")
	assert.Equal(t, 1, snap.Untracked)
	assert.True(t, snap.IsDirty())
}

func TestParseEntryKinds(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Snapshot
	}{
		{"staged deleted", "1 D. N... 100644 000000 000000 abc 000 gone.txt", Snapshot{Staged: 1, StagedDeleted: 1}},
		{"staged modified", "1 M. N... 100644 100644 100644 abc def f.txt", Snapshot{Staged: 1, StagedModified: 1}},
		{"staged renamed", "1 R. N... 100644 100644 100644 abc def f.txt", Snapshot{Staged: 1, StagedRenamed: 1}},
		{"type change", "1 .T N... 100644 100644 120000 abc abc f.txt", Snapshot{Modified: 1}},
		{"worktree deleted", "1 .D N... 100644 100644 000000 abc abc f.txt", Snapshot{Deleted: 1}},
		{"both sides", "1 MM N... 100644 100644 100644 abc def f.txt", Snapshot{Staged: 1, StagedModified: 1, Modified: 1}},
		{"rename entry", "2 R. N... 100644 100644 100644 abc def R100 new.txt\told.txt", Snapshot{Renamed: 1}},
		{"unmerged entry", "u UU N... 100644 100644 100644 100644 abc def ghi conflict.txt", Snapshot{Conflicted: 1}},
		{"unknown index state", "1 X. N... 100644 100644 100644 abc def f.txt", Snapshot{Staged: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.line+"\n"))
		})
	}
}

func TestParseToleratesMalformedInput(t *testing.T) {
	raw := strings.Join([]string{
		"# branch.ab +x -y",     // unparseable offsets default to 0
		"# stash many",          // unparseable stash count defaults to 0
		"# branch.oid",          // missing value ignored
		"1 M",                   // truncated XY ignored
		"! some future entry",   // unknown marker ignored
		"completely mysterious", // unknown line ignored
		"",
	}, "\n")

	snap := Parse(raw)
	assert.Equal(t, Snapshot{}, snap)
}

func TestParseIdempotent(t *testing.T) {
	raw := "# branch.head dev\n# branch.ab +1 -0\n1 AM N... 000000 100644 100644 000 abc f.txt\n? new.txt\n"
	first := Parse(raw)
	second := Parse(raw)
	assert.Equal(t, first, second)
}

func TestParseShortCommitKept(t *testing.T) {
	snap := Parse("# branch.oid abc\n")
	assert.Equal(t, "abc", snap.Commit)
}

// TestParseDerivedProperties feeds randomly generated valid porcelain input
// through the parser and checks the field invariants: counters never go
// negative and the derived booleans exactly match their formulas.
func TestParseDerivedProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	indexStates := []byte{'.', 'A', 'D', 'M', 'R', 'C'}
	worktreeStates := []byte{'.', 'M', 'T', 'D'}

	for i := 0; i < 200; i++ {
		var b strings.Builder
		fmt.Fprintf(&b, "# branch.oid %040x\n", rng.Uint64())
		b.WriteString("# branch.head main\n")
		if rng.Intn(2) == 0 {
			b.WriteString("# branch.upstream origin/main\n")
			fmt.Fprintf(&b, "# branch.ab +%d -%d\n", rng.Intn(5), rng.Intn(5))
		}
		fmt.Fprintf(&b, "# stash %d\n", rng.Intn(3))

		for j := 0; j < rng.Intn(10); j++ {
			switch rng.Intn(4) {
			case 0:
				x := indexStates[rng.Intn(len(indexStates))]
				y := worktreeStates[rng.Intn(len(worktreeStates))]
				fmt.Fprintf(&b, "1 %c%c N... 100644 100644 100644 abc def file%d.txt\n", x, y, j)
			case 1:
				fmt.Fprintf(&b, "2 R. N... 100644 100644 100644 abc def R100 n%d.txt\to%d.txt\n", j, j)
			case 2:
				fmt.Fprintf(&b, "u UU N... 100644 100644 100644 100644 a b c conflict%d.txt\n", j)
			case 3:
				fmt.Fprintf(&b, "? untracked%d.txt\n", j)
			}
		}

		snap := Parse(b.String())

		for name, v := range map[string]int{
			"ahead": snap.Ahead, "behind": snap.Behind, "stashed": snap.Stashed,
			"staged": snap.Staged, "stagedAdded": snap.StagedAdded,
			"stagedDeleted": snap.StagedDeleted, "stagedModified": snap.StagedModified,
			"stagedRenamed": snap.StagedRenamed, "modified": snap.Modified,
			"deleted": snap.Deleted, "renamed": snap.Renamed,
			"conflicted": snap.Conflicted, "untracked": snap.Untracked,
		} {
			require.GreaterOrEqual(t, v, 0, "field %s", name)
		}

		wantDirty := snap.Modified > 0 || snap.Deleted > 0 || snap.Renamed > 0 || snap.Untracked > 0
		wantUpToDate := snap.Ahead == 0 && snap.Behind == 0
		assert.Equal(t, wantDirty, snap.IsDirty())
		assert.Equal(t, wantUpToDate, snap.UpToDate())
		assert.Equal(t, wantUpToDate && !wantDirty, snap.UpToDateAndClean())
	}
}
