// Package serve implements the `depscope serve` subcommand: host the
// orchestrator's local HTTP surface over a crawl root (spec §1, §6).
package serve

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/1homsi/depscope/internal/classify"
	"github.com/1homsi/depscope/internal/logging"
	"github.com/1homsi/depscope/internal/orchestrator"
)

func Run(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	root := fs.String("root", ".", "repository root to crawl and serve")
	addr := fs.String("addr", "127.0.0.1:8787", "listen address")
	profilesPath := fs.String("profiles", "", "YAML profile/keep-rule config file")
	verbose := fs.Bool("verbose", false, "enable verbose debug logging")
	fs.Parse(args)

	if *verbose {
		logging.SetVerbose(true)
	}

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "serve:", err)
		return 2
	}

	profiles, keepRaw, err := orchestrator.LoadProfileConfig(*profilesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "serve:", err)
		return 2
	}
	keepRules := classify.CompileKeepRules(keepRaw)

	orch := orchestrator.New(absRoot)
	srv := orchestrator.NewServer(orch, profiles, keepRules)

	logging.Infof("serve: listening on %s, root=%s", *addr, absRoot)
	if err := http.ListenAndServe(*addr, srv.Mux()); err != nil {
		fmt.Fprintln(os.Stderr, "serve:", err)
		return 1
	}
	return 0
}
