// Package crawl implements the `depscope crawl` subcommand: run one
// language's crawler against a repository root and write its fixed
// artifact filename to that root (spec §6).
package crawl

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/lang/csharp"
	"github.com/1homsi/depscope/internal/lang/dart"
	"github.com/1homsi/depscope/internal/lang/golang"
	"github.com/1homsi/depscope/internal/lang/java"
	"github.com/1homsi/depscope/internal/lang/javascript"
	"github.com/1homsi/depscope/internal/lang/kotlin"
	"github.com/1homsi/depscope/internal/lang/python"
	"github.com/1homsi/depscope/internal/lang/rust"
	"github.com/1homsi/depscope/internal/logging"
)

type langEntry struct {
	spec     crawler.LanguageSpec
	filename string
	style    crawler.FindingStyle
}

var registry = map[string]langEntry{
	"javascript": {javascript.Spec(), "jsDependencies.json", crawler.FindingStyleJS},
	"python":     {python.Spec(), "pyDependencies.json", crawler.FindingStylePython},
	"go":         {golang.Spec(), "goDependencies.json", crawler.FindingStyleJS},
	"rust":       {rust.Spec(), "rustDependencies.json", crawler.FindingStyleJS},
	"java":       {java.Spec(), "javaDependencies.json", crawler.FindingStyleJS},
	"kotlin":     {kotlin.Spec(), "kotlinDependencies.json", crawler.FindingStyleJS},
	"csharp":     {csharp.Spec(), "csharpDependencies.json", crawler.FindingStyleJS},
	"dart":       {dart.Spec(), "dartDependencies.json", crawler.FindingStyleJS},
}

func Run(args []string) int {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	lang := fs.String("lang", "", "language to crawl: javascript|python|go|rust|java|kotlin|csharp|dart")
	verbose := fs.Bool("verbose", false, "enable verbose debug logging")
	fs.Parse(args)

	if *verbose {
		logging.SetVerbose(true)
	}

	entry, ok := registry[*lang]
	if !ok {
		fmt.Fprintf(os.Stderr, "crawl: unknown or missing --lang %q\n", *lang)
		return 2
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "crawl:", err)
		return 2
	}

	artifact, err := crawler.Run(absRoot, entry.spec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "crawl:", err)
		return 2
	}

	outPath := filepath.Join(absRoot, entry.filename)
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "crawl: write artifact:", err)
		return 2
	}
	defer f.Close()

	if err := crawler.Emit(f, artifact, entry.style); err != nil {
		fmt.Fprintln(os.Stderr, "crawl: emit artifact:", err)
		return 2
	}

	// The Python crawler also writes a second, non-canonical artifact
	// (pythonDependencies.json, pythonExports instead of securityFindings).
	// Both file-name behaviors are preserved as an explicit product
	// decision; the orchestrator's discovery only ever reads the
	// canonical pyDependencies.json.
	if *lang == "python" {
		variantPath := filepath.Join(absRoot, "pythonDependencies.json")
		vf, err := os.Create(variantPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "crawl: write python variant artifact:", err)
			return 2
		}
		defer vf.Close()
		if err := crawler.EmitPythonExportsVariant(vf, artifact); err != nil {
			fmt.Fprintln(os.Stderr, "crawl: emit python variant artifact:", err)
			return 2
		}
	}

	logging.Infof("crawl %q: wrote %d nodes, %d edges to %s", *lang, len(artifact.Nodes), len(artifact.Edges), outPath)
	return 0
}
