package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/gitstatus/cli"
	"github.com/grovetools/gitstatus/command"
	"github.com/grovetools/gitstatus/errors"
	"github.com/grovetools/gitstatus/status"
)

// NewStatusCmd creates the one-shot `status` command. It polls once,
// synchronously, and prints the snapshot. Useful for prompt generators that
// do not talk to the daemon.
func NewStatusCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Poll git status once and print the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			handler := cli.NewErrorHandler(opts.Verbose)
			logger := cli.GetLogger(cmd)

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return handler.Handle(err)
			}

			if dir == "" {
				dir, err = os.Getwd()
				if err != nil {
					return handler.Handle(err)
				}
			}

			timeout := time.Duration(cfg.StatusTimeoutMs) * time.Millisecond
			logger.Debugf("polling %s with timeout %s", dir, timeout)

			runner := command.NewRunner()
			res, err := runner.Run(context.Background(), dir, timeout, "git",
				"status", "--porcelain=v2", "--branch", "--show-stash", "--untracked-files=all")
			if err != nil {
				return handler.Handle(errors.SpawnFailed("git status", err))
			}
			if res.TimedOut {
				return handler.Handle(errors.CommandTimeout("git status", cfg.StatusTimeoutMs))
			}
			if res.ExitCode == 128 {
				return handler.Handle(errors.NotARepository(dir))
			}
			if res.ExitCode != 0 {
				return handler.Handle(errors.CommandFailed("git status",
					fmt.Errorf("exit code %d", res.ExitCode)))
			}

			snap := status.Parse(res.Stdout)
			if opts.JSONOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			printSnapshot(&snap)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Repository working directory (default: current directory)")
	return cmd
}

func printSnapshot(snap *status.Snapshot) {
	if snap.Branch != "" {
		fmt.Printf("Branch:     %s\n", snap.Branch)
	} else {
		fmt.Println("Branch:     (detached)")
	}
	if snap.Commit != "" {
		fmt.Printf("Commit:     %s\n", snap.Commit)
	}
	if snap.UpstreamBranch != "" {
		fmt.Printf("Upstream:   %s (+%d -%d)\n", snap.UpstreamBranch, snap.Ahead, snap.Behind)
	}
	fmt.Printf("Staged:     %d\n", snap.Staged)
	fmt.Printf("Modified:   %d\n", snap.Modified)
	fmt.Printf("Deleted:    %d\n", snap.Deleted)
	fmt.Printf("Renamed:    %d\n", snap.Renamed)
	fmt.Printf("Conflicted: %d\n", snap.Conflicted)
	fmt.Printf("Untracked:  %d\n", snap.Untracked)
	fmt.Printf("Stashed:    %d\n", snap.Stashed)
}
