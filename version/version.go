// Package version exposes build metadata stamped in at link time.
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/grovetools/gitstatus/version.Version=..."
// and friends; an unstamped build identifies itself as dev.
var (
	Version   = "dev"
	Commit    = "none"
	Branch    = "unknown"
	BuildDate = "unknown"
)

// Info bundles the build metadata with runtime facts for `gitstatus version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the populated build information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Branch:    Branch,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the info as aligned key/value lines.
func (i Info) String() string {
	return fmt.Sprintf(
		"gitstatus %s\n  commit:    %s\n  branch:    %s\n  built:     %s\n  go:        %s\n  platform:  %s",
		i.Version, i.Commit, i.Branch, i.BuildDate, i.GoVersion, i.Platform,
	)
}
