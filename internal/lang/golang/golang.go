// Package golang implements the Go crawler: `import` extraction (single and
// block form), go.mod-driven module-path resolution, and `package main` +
// `func main()` entry discovery (spec §4.2, §4.3).
package golang

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/logging"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/sanitize"
)

var (
	rePackage     = regexp.MustCompile(`^\s*package\s+(\w+)`)
	reImportOne   = regexp.MustCompile(`^\s*import\s+"([^"]+)"`)
	reImportBlock = regexp.MustCompile(`^\s*import\s*\($`)
	reImportLine  = regexp.MustCompile(`^\s*(?:\w+\s+)?"([^"]+)"`)
	reFuncMain    = regexp.MustCompile(`^\s*func\s+main\s*\(\s*\)`)
)

// Spec returns the Go crawler.LanguageSpec.
func Spec() crawler.LanguageSpec {
	return crawler.LanguageSpec{
		Lang:            model.LangGo,
		Extensions:      []string{".go"},
		Dialect:         sanitize.Go,
		Extract:         extract,
		Resolve:         resolve,
		DiscoverEntries: discoverEntries,
	}
}

func extract(root, absPath, relID, raw, commentsBlanked string) (model.FileFacts, error) {
	var facts model.FileFacts
	var hasFuncMain bool

	lines := strings.Split(commentsBlanked, "\n")
	inBlock := false
	for i, line := range lines {
		lineNo := i + 1

		if m := rePackage.FindStringSubmatch(line); m != nil {
			facts.PackageOrModule = m[1]
		}
		if reFuncMain.MatchString(line) {
			hasFuncMain = true
		}

		if inBlock {
			if strings.TrimSpace(line) == ")" {
				inBlock = false
				continue
			}
			if m := reImportLine.FindStringSubmatch(line); m != nil {
				facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "import", Line: lineNo})
			}
			continue
		}
		if reImportBlock.MatchString(line) {
			inBlock = true
			continue
		}
		if m := reImportOne.FindStringSubmatch(line); m != nil {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "import", Line: lineNo})
		}
	}

	facts.EntryMarker = hasFuncMain && facts.PackageOrModule == "main"

	return facts, nil
}

// moduleCache memoizes the go.mod module path per crawl root.
var moduleCache = map[string]string{}

func modulePath(root string) string {
	if mp, ok := moduleCache[root]; ok {
		return mp
	}
	mp := readModulePath(root)
	moduleCache[root] = mp
	return mp
}

func readModulePath(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	mf, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil || mf.Module == nil {
		logging.Warnf("[go] unparsable go.mod under %s: %v", root, err)
		return ""
	}
	return mf.Module.Mod.Path
}

func resolve(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	mp := modulePath(idx.Root)
	if mp != "" && (imp.Raw == mp || strings.HasPrefix(imp.Raw, mp+"/")) {
		dir := strings.TrimPrefix(strings.TrimPrefix(imp.Raw, mp), "/")
		return resolveInternalDir(idx, dir, imp.Kind)
	}

	if !strings.Contains(firstSegment(imp.Raw), ".") {
		return crawler.Resolution{External: "std:" + imp.Raw, Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}
	return crawler.Resolution{External: "go:" + imp.Raw, Kind: imp.Kind, Certainty: model.CertaintyStatic}
}

// resolveInternalDir links the source file to every non-_test.go file
// located in dir (spec §4.3: "map suffix to a directory and link the
// source to every non-`_test.go` file in that directory").
func resolveInternalDir(idx *crawler.Index, dir string, kind string) crawler.Resolution {
	var targets []string
	for _, rel := range idx.Ordered {
		relDir := filepath.Dir(rel)
		if relDir == "." {
			relDir = ""
		}
		if relDir != dir {
			continue
		}
		if strings.HasSuffix(rel, "_test.go") {
			continue
		}
		targets = append(targets, rel)
	}
	if len(targets) == 0 {
		return crawler.Resolution{Skip: true}
	}
	return crawler.Resolution{Internals: targets, Kind: kind, Certainty: model.CertaintyStatic}
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

func discoverEntries(idx *crawler.Index) map[string]bool {
	entries := map[string]bool{}
	for rel, f := range idx.Files {
		if f.EntryMarker {
			entries[rel] = true
		}
	}
	return entries
}
