// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"sharpx/internal/errors"
	"sharpx/internal/processor"
	"sharpx/internal/scanner"
)

const PROMPT = ">> "

const filename = "<repl>"

// Start reads lines from in and prints each one rewritten, or its
// diagnostics. ":tokens" toggles printing the token stream instead, ":quit"
// ends the session. It returns when in is exhausted.
func Start(in io.Reader, out io.Writer, rules *scanner.Rules) {
	input := bufio.NewScanner(in)
	showTokens := false

	for {
		fmt.Fprint(out, PROMPT)
		if !input.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := input.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":quit":
			return
		case ":tokens":
			showTokens = !showTokens
			fmt.Fprintf(out, "token mode %s\n", onOff(showTokens))
			continue
		}

		if showTokens {
			printTokens(out, line, rules)
			continue
		}

		p := processor.New(line, processor.WithRules(rules), processor.WithFilename(filename))
		result, err := p.Run()
		reporter := errors.NewErrorReporter(filename, line)
		for _, w := range p.Warnings() {
			fmt.Fprint(out, reporter.FormatError(errors.FromScanError(w)))
		}
		if err != nil {
			if d, ok := errors.FromError(err); ok {
				fmt.Fprint(out, reporter.FormatError(d))
			} else {
				fmt.Fprintln(out, err)
			}
			continue
		}
		fmt.Fprintln(out, result)
	}
}

func printTokens(out io.Writer, line string, rules *scanner.Rules) {
	s := scanner.New(line, rules)
	for _, t := range s.ScanTokens().Significant() {
		fmt.Fprintf(out, "%-16s %q\n", t.Kind, t.Text)
	}
	reporter := errors.NewErrorReporter(filename, line)
	for _, se := range s.Errors() {
		fmt.Fprint(out, reporter.FormatError(errors.FromScanError(se)))
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
