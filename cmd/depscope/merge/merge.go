// Package merge implements the `depscope merge` subcommand: ingest one or
// more per-language crawler artifacts into a fresh GraphState and print the
// merged graph JSON (spec §4.6, §6).
package merge

import (
	"flag"
	"fmt"
	"os"

	"github.com/1homsi/depscope/internal/merge"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/orchestrator"
)

func Run(args []string) int {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "merge: no artifact files given")
		return 2
	}

	state := model.NewGraphState()
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "merge: read %s: %v\n", path, err)
			continue
		}
		if err := merge.MergeJSON(state, data); err != nil {
			fmt.Fprintf(os.Stderr, "merge: %s: %v\n", path, err)
			continue
		}
	}

	if err := orchestrator.EmitMerged(os.Stdout, state, nil); err != nil {
		fmt.Fprintln(os.Stderr, "merge: write output:", err)
		return 2
	}
	return 0
}
