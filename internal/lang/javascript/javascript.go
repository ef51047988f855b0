// Package javascript implements the JS/TS crawler: extraction of
// import/export/require references, relative-specifier resolution with the
// extension-probe order spec §4.3 fixes, package.json/conventional entry
// discovery, and the side-effect-only state annotation unique to this
// language (spec §4.5).
package javascript

import (
	"encoding/json"
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
	// bare side-effect form: "import" immediately (modulo whitespace)
	// followed by the specifier string, with no binding clause in between.
	reImportSide = regexp.MustCompile(`\bimport\s*['"]([^'"]+)['"]`)
	// named/default/namespace form: "import <bindings> from 'x'".
	reImportFrom = regexp.MustCompile(`\bimport\s+[^'";]*?\sfrom\s+['"]([^'"]+)['"]`)
	reImportBare = regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	reExportFrom = regexp.MustCompile(`\bexport\s+[^'";]*?\sfrom\s+['"]([^'"]+)['"]`)
	reRequire    = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// extExt is the fixed relative-extension probe order (spec §4.3).
var extExt = []string{"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// Spec returns the JavaScript/TypeScript crawler.LanguageSpec.
func Spec() crawler.LanguageSpec {
	return crawler.LanguageSpec{
		Lang:            model.LangJavaScript,
		Extensions:      []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
		Dialect:         sanitize.JavaScript,
		Extract:         extract,
		Resolve:         resolve,
		DiscoverEntries: discoverEntries,
		SideEffectAware: true,
		SecurityCatalog: rules.JS(),
	}
}

func extract(root, absPath, relID, raw, commentsBlanked string) (model.FileFacts, error) {
	var facts model.FileFacts

	lines := strings.Split(commentsBlanked, "\n")
	for i, line := range lines {
		lineNo := i + 1

		for _, m := range reImportFrom.FindAllStringSubmatch(line, -1) {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "import", Line: lineNo})
			facts.HasSideEffects = true
		}
		for _, m := range reImportSide.FindAllStringSubmatch(line, -1) {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "side_effect", Line: lineNo})
			facts.HasSideEffects = true
		}
		for _, m := range reExportFrom.FindAllStringSubmatch(line, -1) {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "reexport", Line: lineNo})
			facts.HasSideEffects = true
		}
		for _, m := range reRequire.FindAllStringSubmatch(line, -1) {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "require", Line: lineNo})
			facts.HasSideEffects = true
		}
		for _, m := range reImportBare.FindAllStringSubmatch(line, -1) {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "dynamic", Line: lineNo})
			facts.HasSideEffects = true
		}
	}

	return facts, nil
}

func resolve(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	spec := imp.Raw

	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == ".." {
		dir := filepath.Dir(f.RelID)
		joined := pathutil.ToSlash(filepath.Join(dir, spec))
		if rel, ok := probeRelative(idx, joined); ok {
			return crawler.Resolution{Internal: rel, Kind: imp.Kind, Certainty: model.CertaintyStatic}
		}
		// unresolved relative specifier: still external, but keep verbatim.
		return crawler.Resolution{External: spec, Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}

	pkg := packageNameOf(spec)
	return crawler.Resolution{External: pkg, Kind: imp.Kind, Certainty: model.CertaintyStatic}
}

func probeRelative(idx *crawler.Index, joined string) (string, bool) {
	for _, ext := range extExt {
		candidate := joined + ext
		if _, ok := idx.Files[candidate]; ok {
			return candidate, true
		}
	}
	for _, ext := range extExt[1:] {
		candidate := joined + "/index" + ext
		if _, ok := idx.Files[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

func packageNameOf(spec string) string {
	if strings.HasPrefix(spec, "@") {
		parts := strings.SplitN(spec, "/", 3)
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
		return spec
	}
	parts := strings.SplitN(spec, "/", 2)
	return parts[0]
}

type packageJSON struct {
	Main    json.RawMessage `json:"main"`
	Module  json.RawMessage `json:"module"`
	Exports json.RawMessage `json:"exports"`
}

func discoverEntries(idx *crawler.Index) map[string]bool {
	entries := map[string]bool{}

	if data, err := os.ReadFile(filepath.Join(idx.Root, "package.json")); err == nil {
		var pj packageJSON
		if json.Unmarshal(data, &pj) == nil {
			for _, raw := range []json.RawMessage{pj.Main, pj.Module, pj.Exports} {
				collectStringEntries(idx, raw, entries)
			}
		}
	}

	fallbacks := []string{
		"src/main.ts", "src/main.tsx", "src/main.js",
		"src/index.ts", "src/index.tsx", "src/index.js", "src/index.jsx",
		"index.ts", "index.tsx", "index.js", "index.jsx",
	}
	for _, f := range fallbacks {
		if _, ok := idx.Files[f]; ok {
			entries[f] = true
		}
	}

	return entries
}

// collectStringEntries walks a package.json field (string, or nested object
// of strings) and resolves any value that matches a crawled file to an entry.
func collectStringEntries(idx *crawler.Index, raw json.RawMessage, entries map[string]bool) {
	if len(raw) == 0 {
		return
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		addEntryPath(idx, s, entries)
		return
	}
	var m map[string]json.RawMessage
	if json.Unmarshal(raw, &m) == nil {
		for _, v := range m {
			collectStringEntries(idx, v, entries)
		}
	}
}

func addEntryPath(idx *crawler.Index, p string, entries map[string]bool) {
	p = strings.TrimPrefix(p, "./")
	p = pathutil.ToSlash(p)
	if _, ok := idx.Files[p]; ok {
		entries[p] = true
		return
	}
	if rel, ok := probeRelative(idx, p); ok {
		entries[rel] = true
	}
}
