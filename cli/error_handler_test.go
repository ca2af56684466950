package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grovetools/gitstatus/errors"
)

func handleToString(t *testing.T, verbose bool, err error) string {
	t.Helper()

	var buf bytes.Buffer
	h := &ErrorHandler{Verbose: verbose, out: &buf}
	assert.Equal(t, err, h.Handle(err))
	return buf.String()
}

func TestHandleMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout includes the configured bound", errors.CommandTimeout("git status", 1500), "within 1500ms"},
		{"not a repository", errors.NotARepository("/tmp/elsewhere"), "Not inside a git repository"},
		{"spawn failure points at PATH", errors.SpawnFailed("git", fmt.Errorf("no such file")), "git is installed"},
		{"daemon running includes the pid", errors.DaemonAlreadyRunning(4242), "pid 4242"},
		{"config missing", errors.ConfigNotFound("gitstatus.yml"), "Configuration not found"},
		{"plain errors fall through", fmt.Errorf("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := handleToString(t, false, tt.err)
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "<nil>")
		})
	}
}

func TestHandleVerboseShowsDetails(t *testing.T) {
	out := handleToString(t, true, errors.ConfigInvalid("auto_fetch_interval_ms must be a number"))
	assert.Contains(t, out, "CONFIG_INVALID")
	assert.Contains(t, out, "auto_fetch_interval_ms")
}
