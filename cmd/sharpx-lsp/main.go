// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"sharpx/internal/dialect"
	"sharpx/internal/lsp"
)

const lsName = "sharpx"

var handler protocol.Handler

func main() {
	var dialectName string
	var verbosity int

	cmd := &cobra.Command{
		Use:           "sharpx-lsp",
		Short:         "Language server for Extended Dialect sources over stdio",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol, logs go to stderr
			commonlog.Configure(verbosity, nil)
			log := commonlog.GetLogger("sharpx.lsp.main")

			rules, err := dialect.Resolve(dialectName)
			if err != nil {
				return err
			}

			sharpxHandler := lsp.NewHandler(rules)

			handler = protocol.Handler{
				Initialize:                     sharpxHandler.Initialize,
				Initialized:                    sharpxHandler.Initialized,
				Shutdown:                       sharpxHandler.Shutdown,
				SetTrace:                       sharpxHandler.SetTrace,
				TextDocumentDidOpen:            sharpxHandler.TextDocumentDidOpen,
				TextDocumentDidClose:           sharpxHandler.TextDocumentDidClose,
				TextDocumentDidChange:          sharpxHandler.TextDocumentDidChange,
				TextDocumentSemanticTokensFull: sharpxHandler.TextDocumentSemanticTokensFull,
			}

			s := server.NewServer(&handler, lsName, false)

			log.Infof("starting %s language server (dialect %s)", lsName, rules.Name())
			return s.RunStdio()
		},
	}
	cmd.Flags().StringVarP(&dialectName, "dialect", "d", dialect.ExtendedName, "dialect name (base, extended) or a .toml/.yaml dialect file")
	cmd.Flags().IntVar(&verbosity, "verbosity", 1, "log verbosity")

	if err := cmd.Execute(); err != nil {
		commonlog.GetLogger("sharpx.lsp.main").Errorf("%s", err)
		os.Exit(1)
	}
}
