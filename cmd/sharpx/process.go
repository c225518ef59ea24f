package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"sharpx/internal/errors"
	"sharpx/internal/processor"
	"sharpx/internal/scanner"
)

type processFlags struct {
	output     string
	diff       bool
	watch      bool
	noValidate bool
	shell      string
}

func newProcessCommand(opts *options) *cobra.Command {
	flags := &processFlags{}

	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Rewrite an Extended Dialect file into Base Language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := opts.rules(cmd)
			if err != nil {
				return err
			}
			path := args[0]

			if !flags.watch {
				return processFile(cmd, path, rules, flags)
			}
			if path == "-" {
				return fmt.Errorf("--watch needs a file, not standard input")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchFile(ctx, cmd, path, rules, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the result to a file instead of standard output")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print a unified diff between input and result")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "process again whenever the file is written")
	cmd.Flags().BoolVar(&flags.noValidate, "no-validate", false, "skip the structural check of the result")
	cmd.Flags().StringVar(&flags.shell, "shell", processor.DefaultShell, "shell for shell lines using pipes or redirections")
	return cmd
}

func processFile(cmd *cobra.Command, path string, rules *scanner.Rules, flags *processFlags) error {
	startTime := time.Now()
	stderr := cmd.ErrOrStderr()

	source, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	p := processor.New(source,
		processor.WithRules(rules),
		processor.WithFilename(path),
		processor.WithValidation(!flags.noValidate),
		processor.WithShell(flags.shell),
	)
	result, err := p.Run()

	reporter := errors.NewErrorReporter(path, source)
	for _, w := range p.Warnings() {
		fmt.Fprint(stderr, reporter.FormatError(errors.FromScanError(w)))
	}

	if err != nil {
		if d, ok := errors.FromError(err); ok {
			fmt.Fprint(stderr, reporter.FormatError(d))
		} else {
			fmt.Fprintln(stderr, color.RedString("error: %s", err))
		}
		fmt.Fprintln(stderr, color.RedString("Processing failed after %s", formatDuration(time.Since(startTime))))
		return errReported
	}

	switch {
	case flags.diff:
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(source),
			B:        difflib.SplitLines(result),
			FromFile: path,
			ToFile:   path + " (rewritten)",
			Context:  3,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
	case flags.output != "":
		if err := os.WriteFile(flags.output, []byte(result), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	default:
		fmt.Fprint(cmd.OutOrStdout(), result)
	}

	fmt.Fprintln(stderr, color.GreenString("Successfully processed %s in %s", path, formatDuration(time.Since(startTime))))
	return nil
}

// watchFile processes path once, then again after every write until ctx is
// done. Processing errors are reported and watching continues.
func watchFile(ctx context.Context, cmd *cobra.Command, path string, rules *scanner.Rules, flags *processFlags) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file, so watch its directory
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	if err := processFile(cmd, path, rules, flags); err != nil && err != errReported {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), color.CyanString("Watching %s", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if err := processFile(cmd, path, rules, flags); err != nil && err != errReported {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("watch error: %s", err))
		}
	}
}
