package status

import (
	"strconv"
	"strings"
)

// commitIDLen is the truncation width for the HEAD commit id.
const commitIDLen = 6

// Parse maps raw `git status --porcelain=v2 --branch --show-stash` output to
// a Snapshot. It is a pure function: same input, same output, no I/O.
//
// Unknown line kinds and unparseable numeric tokens are tolerated (skipped
// or defaulted to 0) so a newer git cannot break the parse.
func Parse(raw string) Snapshot {
	var snap Snapshot

	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}

		switch line[0] {
		case '#':
			parseHeader(line, &snap)
		case '1':
			parseOrdinary(line, &snap)
		case '2':
			snap.Renamed++
		case 'u':
			snap.Conflicted++
		case '?':
			snap.Untracked++
		}
	}

	return snap
}

// parseHeader handles `# branch.*` and `# stash` metadata lines.
func parseHeader(line string, snap *Snapshot) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return
	}

	switch parts[1] {
	case "branch.oid":
		oid := parts[2]
		if len(oid) > commitIDLen {
			oid = oid[:commitIDLen]
		}
		snap.Commit = oid
	case "branch.head":
		snap.Branch = parts[2]
	case "branch.upstream":
		snap.UpstreamBranch = parts[2]
	case "branch.ab":
		// format is +<ahead> -<behind>
		snap.Ahead = parseOffset(parts[2])
		if len(parts) > 3 {
			snap.Behind = parseOffset(parts[3])
		}
	case "stash":
		snap.Stashed = parseCount(parts[2])
	}
}

// parseOrdinary handles `1 XY ...` changed entries. X is the index state,
// Y the worktree state; '.' means unmodified on either side.
func parseOrdinary(line string, snap *Snapshot) {
	parts := strings.Fields(line)
	if len(parts) < 2 || len(parts[1]) < 2 {
		return
	}

	x := parts[1][0]
	y := parts[1][1]

	if x != '.' {
		snap.Staged++
		switch x {
		case 'A':
			snap.StagedAdded++
		case 'D':
			snap.StagedDeleted++
		case 'M':
			snap.StagedModified++
		case 'R':
			snap.StagedRenamed++
		}
	}

	switch y {
	case 'M', 'T':
		snap.Modified++
	case 'D':
		snap.Deleted++
	}
}

// parseOffset parses a signed-offset token like "+2" or "-3", returning the
// magnitude. Malformed tokens yield 0.
func parseOffset(token string) int {
	if token == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimLeft(token, "+-"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseCount parses a plain non-negative count, defaulting to 0.
func parseCount(token string) int {
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
