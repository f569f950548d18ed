// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"dream/internal/config"
	"dream/internal/lsp"
)

const lsName = "dream"

var (
	version = "0.1.0"
	handler protocol.Handler
)

func main() {
	listen := flag.String("listen", "", "serve over a websocket on `ADDR` instead of stdio")
	configFile := flag.String("config", "", "TOML configuration `FILE`")
	logFile := flag.String("log", "", "write logs to `FILE` instead of stderr")
	verbosity := flag.Int("verbosity", 1, "log verbosity (-4 silent to 2 debug)")
	flag.Parse()

	if *logFile != "" {
		commonlog.Configure(*verbosity, logFile)
	} else {
		commonlog.Configure(*verbosity, nil)
	}
	log := commonlog.GetLogger("dream.lsp.server")

	cfg := config.Defaults
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		cfg = *loaded
	}

	dreamHandler, err := lsp.NewDreamHandler(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	handler = protocol.Handler{
		Initialize:                     dreamHandler.Initialize,
		Initialized:                    dreamHandler.Initialized,
		Shutdown:                       dreamHandler.Shutdown,
		SetTrace:                       dreamHandler.SetTrace,
		TextDocumentDidOpen:            dreamHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           dreamHandler.TextDocumentDidClose,
		TextDocumentDidChange:          dreamHandler.TextDocumentDidChange,
		TextDocumentCompletion:         dreamHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: dreamHandler.TextDocumentSemanticTokensFull,
		TextDocumentDocumentSymbol:     dreamHandler.TextDocumentDocumentSymbol,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Infof("starting %s language server %s", lsName, version)

	if *listen != "" {
		err = s.RunWebSocket(*listen)
	} else {
		err = s.RunStdio()
	}
	if err != nil {
		log.Errorf("server stopped: %s", err)
		os.Exit(1)
	}
}
