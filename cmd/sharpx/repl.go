package main

import (
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"sharpx/repl"
)

func newReplCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Rewrite lines interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := opts.rules(cmd)
			if err != nil {
				return err
			}

			name := "there"
			if currentUser, err := user.Current(); err == nil {
				name = currentUser.Username
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome to the sharpx REPL (%s dialect), %s!\n", rules.Name(), name)
			repl.Start(cmd.InOrStdin(), cmd.OutOrStdout(), rules)
			return nil
		},
	}
}
