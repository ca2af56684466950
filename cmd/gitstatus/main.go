package main

import (
	"os"

	"github.com/grovetools/gitstatus/cli"
	"github.com/grovetools/gitstatus/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"gitstatus",
		"Async git status engine for statusline renderers",
	)

	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewDaemonCmd())
	rootCmd.AddCommand(cmd.NewNvimCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	cli.SetStyledHelp(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
