package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sharpx/internal/errors"
	"sharpx/internal/scanner"
)

func newTokenizeCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := opts.rules(cmd)
			if err != nil {
				return err
			}
			path := args[0]
			source, err := readSource(cmd, path)
			if err != nil {
				return err
			}

			s := scanner.New(source, rules)
			tokens := s.ScanTokens()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(tokens); err != nil {
					return err
				}
			} else {
				for _, t := range tokens {
					fmt.Fprintf(out, "%-7s %-16s %q\n", t.Position, t.Kind, t.Text)
				}
			}

			if len(s.Errors()) > 0 {
				var diags []errors.Diagnostic
				for _, se := range s.Errors() {
					diags = append(diags, errors.FromScanError(se))
				}
				fmt.Fprint(cmd.ErrOrStderr(), errors.NewErrorReporter(path, source).FormatAll(diags))
			}
			if s.Err() != nil {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tokens as JSON")
	return cmd
}
