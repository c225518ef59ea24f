package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sharpx/grammar"
	"sharpx/internal/errors"
	"sharpx/internal/processor"
)

func newCheckCommand(opts *options) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check that a file is, or rewrites to, structurally valid Base Language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := time.Now()
			stderr := cmd.ErrOrStderr()

			rules, err := opts.rules(cmd)
			if err != nil {
				return err
			}
			path := args[0]
			source, err := readSource(cmd, path)
			if err != nil {
				return err
			}

			fail := func(src string, err error) error {
				if d, ok := errors.FromError(err); ok {
					fmt.Fprint(stderr, errors.NewErrorReporter(path, src).FormatError(d))
				} else {
					fmt.Fprintln(stderr, color.RedString("error: %s", err))
				}
				fmt.Fprintln(stderr, color.RedString("Check failed after %s", formatDuration(time.Since(startTime))))
				return errReported
			}

			code := source
			if rules.DirectivesEnabled() {
				code, err = processor.Process(source,
					processor.WithRules(rules),
					processor.WithFilename(path),
					processor.WithValidation(false),
				)
				if err != nil {
					return fail(source, err)
				}
			}

			program, err := grammar.Parse(path, code)
			if err != nil {
				return fail(code, err)
			}

			if tree {
				fmt.Fprint(cmd.OutOrStdout(), program.String())
			}
			fmt.Fprintln(stderr, color.GreenString("Successfully checked %s in %s (%d directive(s), depth %d)",
				path, formatDuration(time.Since(startTime)), len(program.Directives()), program.Depth()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "print the bracket structure")
	return cmd
}
