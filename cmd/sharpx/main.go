// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"sharpx/internal/dialect"
	"sharpx/internal/errors"
	"sharpx/internal/scanner"
)

// errReported means the failure has already been printed.
var errReported = fmt.Errorf("failed")

type options struct {
	verbosity int
	dialect   string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "sharpx",
		Short:         "Tokenize and rewrite Extended Dialect sources into plain Base Language",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbosity, nil)
		},
	}
	root.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	root.PersistentFlags().StringVarP(&opts.dialect, "dialect", "d", dialect.ExtendedName, "dialect name (base, extended) or a .toml/.yaml dialect file")

	root.AddCommand(
		newTokenizeCommand(opts),
		newProcessCommand(opts),
		newCheckCommand(opts),
		newReplCommand(opts),
	)
	return root
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if err != errReported {
			fmt.Fprintln(root.ErrOrStderr(), color.RedString("Error: %s", err))
		}
		os.Exit(1)
	}
}

func (o *options) rules(cmd *cobra.Command) (*scanner.Rules, error) {
	rules, err := dialect.Resolve(o.dialect)
	if err != nil {
		d := errors.Dialect(o.dialect, err)
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("error[%s]: %s", d.Code, d.Message))
		return nil, errReported
	}
	return rules, nil
}

// readSource reads path, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
