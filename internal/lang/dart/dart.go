// Package dart implements the self-hosted-language (L-self) crawler:
// `import`/`export`/`part`/`part of` directive extraction, package: URI
// resolution against the crawl's own pubspec.yaml package name, a public API
// summary (classes/functions/typedefs/extensions/variables), and `main()` +
// conventional-layout entry discovery (spec §4.2, §4.3, §4.4 L-self variant).
package dart

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/pathutil"
	"github.com/1homsi/depscope/internal/rules"
	"github.com/1homsi/depscope/internal/sanitize"
)

var (
	reImport  = regexp.MustCompile(`^\s*import\s+['"]([^'"]+)['"]`)
	reExport  = regexp.MustCompile(`^\s*export\s+['"]([^'"]+)['"]`)
	rePartOf  = regexp.MustCompile(`^\s*part\s+of\s+['"]?([^'";]+)['"]?`)
	rePart    = regexp.MustCompile(`^\s*part\s+['"]([^'"]+)['"]`)
	reMainFn  = regexp.MustCompile(`\b(?:void|int|Future<void>)?\s*main\s*\(`)
	reClass   = regexp.MustCompile(`^\s*(?:abstract\s+)?class\s+(\w+)`)
	reTypedef = regexp.MustCompile(`^\s*typedef\s+(\w+)`)
	reExtOn   = regexp.MustCompile(`^\s*extension\s+(\w+)\s+on\s`)
	reTopVar  = regexp.MustCompile(`^(?:final|const|var)\s+(?:[\w<>,\s\?]+\s+)?(\w+)\s*=`)
	reTopFunc = regexp.MustCompile(`^(?:[\w<>,\.\[\]\?]+\s+)?(\w+)\s*\([^;{]*\)\s*(?:async\*?\s*)?\{`)
)

// Spec returns the self-hosted (Dart) crawler.LanguageSpec.
func Spec() crawler.LanguageSpec {
	return crawler.LanguageSpec{
		Lang:             model.LangDart,
		Extensions:       []string{".dart"},
		Dialect:          sanitize.Dart,
		Extract:          extract,
		Resolve:          resolve,
		DiscoverEntries:  discoverEntries,
		EscalateOnDegree: true,
		SecurityCatalog:  rules.Dart(),
	}
}

func extract(root, absPath, relID, raw, commentsBlanked string) (model.FileFacts, error) {
	var facts model.FileFacts
	exports := model.ExportSummary{}

	lines := strings.Split(commentsBlanked, "\n")
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if m := reImport.FindStringSubmatch(line); m != nil {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "import", Line: lineNo})
		}
		if m := reExport.FindStringSubmatch(line); m != nil {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "export", Line: lineNo})
		}
		if m := rePartOf.FindStringSubmatch(line); m != nil {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "part-of", Line: lineNo})
		} else if m := rePart.FindStringSubmatch(line); m != nil {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "part", Line: lineNo})
		}
		if reMainFn.MatchString(line) && strings.Contains(line, "main(") {
			facts.EntryMarker = true
		}

		if m := reClass.FindStringSubmatch(trimmed); m != nil {
			exports["classes"] = append(exports["classes"], m[1])
		} else if m := reTypedef.FindStringSubmatch(trimmed); m != nil {
			exports["typedefs"] = append(exports["typedefs"], m[1])
		} else if m := reExtOn.FindStringSubmatch(trimmed); m != nil {
			exports["extensions"] = append(exports["extensions"], m[1])
		} else if m := reTopVar.FindStringSubmatch(trimmed); m != nil {
			exports["variables"] = append(exports["variables"], m[1])
		} else if m := reTopFunc.FindStringSubmatch(trimmed); m != nil && m[1] != "if" && m[1] != "for" && m[1] != "while" && m[1] != "switch" {
			exports["functions"] = append(exports["functions"], m[1])
		}
	}

	if len(exports) > 0 {
		facts.Exports = exports
	}

	return facts, nil
}

// pubspecName memoizes the pubspec.yaml `name:` field per crawl root.
var pubspecName = map[string]string{}

var rePubspecName = regexp.MustCompile(`(?m)^name:\s*(\S+)`)

func packageName(root string) string {
	if n, ok := pubspecName[root]; ok {
		return n
	}
	n := ""
	if data, err := os.ReadFile(filepath.Join(root, "pubspec.yaml")); err == nil {
		if m := rePubspecName.FindStringSubmatch(string(data)); m != nil {
			n = strings.TrimSpace(m[1])
		}
	}
	pubspecName[root] = n
	return n
}

func resolve(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	uri := imp.Raw

	if strings.HasPrefix(uri, "package:") {
		rest := strings.TrimPrefix(uri, "package:")
		pkg := packageName(idx.Root)
		if i := strings.IndexByte(rest, '/'); i >= 0 && pkg != "" && rest[:i] == pkg {
			cand := "lib/" + rest[i+1:]
			if _, ok := idx.Files[cand]; ok {
				return crawler.Resolution{Internal: cand, Kind: imp.Kind, Certainty: model.CertaintyStatic}
			}
		}
		return crawler.Resolution{External: uri, Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}

	if i := strings.IndexByte(uri, ':'); i >= 0 && isScheme(uri[:i]) {
		return crawler.Resolution{External: uri, Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}

	dir := filepath.Dir(f.RelID)
	joined := pathutil.ToSlash(filepath.Join(dir, uri))
	if _, ok := idx.Files[joined]; ok {
		return crawler.Resolution{Internal: joined, Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}
	return crawler.Resolution{External: "external:" + uri, Kind: imp.Kind, Certainty: model.CertaintyHeuristic}
}

func isScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

func discoverEntries(idx *crawler.Index) map[string]bool {
	entries := map[string]bool{}
	for rel, f := range idx.Files {
		if f.EntryMarker {
			entries[rel] = true
		}
	}

	pkg := packageName(idx.Root)
	candidates := []string{"bin/main.dart", "lib/main.dart"}
	if pkg != "" {
		candidates = append(candidates, "bin/"+pkg+".dart", "lib/"+pkg+".dart")
	}
	for _, c := range candidates {
		if _, ok := idx.Files[c]; ok {
			entries[c] = true
		}
	}

	return entries
}
