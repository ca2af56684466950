package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/gitstatus/cli"
	"github.com/grovetools/gitstatus/nvimhost"
)

// NewNvimCmd creates the `nvim` command that runs the engine as a Neovim
// remote plugin host over stdio. Neovim starts this with jobstart() and the
// process lives as long as the RPC channel.
func NewNvimCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "nvim",
		Short:  "Run as a Neovim remote plugin host",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			nvimhost.New(cfg).Main()
			return nil
		},
	}
}
