package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/gitstatus/errors"
)

// ErrorHandler provides user-friendly error messages.
type ErrorHandler struct {
	Verbose bool
	out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		out:     os.Stderr,
	}
}

// Handle provides user-friendly error messages based on error type.
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.out, "❌ Configuration not found. Create gitstatus.yml in your config directory.\n")
		return err

	case errors.ErrCodeNotARepository:
		fmt.Fprintf(h.out, "❌ Not inside a git repository.\n")
		return err

	case errors.ErrCodeCommandNotFound:
		fmt.Fprintf(h.out, "❌ Required command not found. Make sure git is installed and on PATH.\n")
		return err

	case errors.ErrCodeCommandTimeout:
		if serr, ok := err.(*errors.StatusError); ok {
			fmt.Fprintf(h.out, "❌ git did not respond within %vms\n", serr.Details["timeoutMs"])
			fmt.Fprintf(h.out, "Large repositories may need a higher status_timeout_ms.\n")
		}
		return err

	case errors.ErrCodeDaemonRunning:
		if serr, ok := err.(*errors.StatusError); ok {
			fmt.Fprintf(h.out, "❌ Daemon is already running (pid %v)\n", serr.Details["pid"])
			fmt.Fprintf(h.out, "Run 'gitstatus daemon stop' first.\n")
		}
		return err

	default:
		fmt.Fprintf(h.out, "❌ Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if serr, ok := err.(*errors.StatusError); ok {
				fmt.Fprintf(h.out, "\nError details:\n%s\n", serr.ToJSON())
			}
		}
		return err
	}
}
