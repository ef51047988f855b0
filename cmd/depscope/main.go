package main

import (
	"fmt"
	"os"

	"github.com/1homsi/depscope/cmd/depscope/classify"
	"github.com/1homsi/depscope/cmd/depscope/crawl"
	"github.com/1homsi/depscope/cmd/depscope/merge"
	"github.com/1homsi/depscope/cmd/depscope/serve"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "crawl":
		os.Exit(crawl.Run(os.Args[2:]))
	case "merge":
		os.Exit(merge.Run(os.Args[2:]))
	case "classify":
		os.Exit(classify.Run(os.Args[2:]))
	case "serve":
		os.Exit(serve.Run(os.Args[2:]))
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `depscope — polyglot static dependency and security analyzer

Usage:
  depscope crawl    --lang <language> <root>
  depscope merge    <artifact.json>... > merged.json
  depscope classify [--profiles file.yaml] [--fail-on sev] [--sarif] <merged.json>
  depscope serve    --root <dir> [--addr :8787] [--profiles file.yaml]
  depscope version`)
}
