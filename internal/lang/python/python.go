// Package python implements the Python crawler: `import`/`from … import`
// extraction, absolute and relative module resolution via nearest ancestor
// package root (spec §4.2, §4.3), and entry discovery from `__name__ ==
// "__main__"` guards plus pyproject.toml/setup.cfg script declarations.
package python

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/rules"
	"github.com/1homsi/depscope/internal/sanitize"
)

var (
	reImport     = regexp.MustCompile(`^\s*import\s+([\w\.]+(?:\s+as\s+\w+)?(?:\s*,\s*[\w\.]+(?:\s+as\s+\w+)?)*)`)
	reFromImport = regexp.MustCompile(`^\s*from\s+(\.*[\w\.]*)\s+import\s+(.+)$`)
	reMainGuard  = regexp.MustCompile(`^\s*if\s+__name__\s*==\s*['"]__main__['"]\s*:`)
)

// Spec returns the Python crawler.LanguageSpec.
func Spec() crawler.LanguageSpec {
	return crawler.LanguageSpec{
		Lang:            model.LangPython,
		Extensions:      []string{".py"},
		Dialect:         sanitize.Python,
		Extract:         extract,
		Resolve:         resolve,
		DiscoverEntries: discoverEntries,
		SecurityCatalog: rules.Python(),
	}
}

func extract(root, absPath, relID, raw, sanitized string) (model.FileFacts, error) {
	var facts model.FileFacts

	facts.PackageOrModule = modulePathOf(root, relID)

	sc := bufio.NewScanner(strings.NewReader(sanitized))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		if loc := reMainGuard.FindStringIndex(line); loc != nil {
			facts.EntryMarker = true
			// a guarded one-liner ("if __name__ == '__main__': from x import y")
			// still yields the statement following the colon.
			if rest := strings.TrimSpace(line[loc[1]:]); rest != "" {
				extractImportLine(rest, lineNo, &facts)
			}
			continue
		}

		extractImportLine(line, lineNo, &facts)
	}

	return facts, nil
}

func extractImportLine(line string, lineNo int, facts *model.FileFacts) {
	if m := reFromImport.FindStringSubmatch(line); m != nil {
		dots := 0
		for dots < len(m[1]) && m[1][dots] == '.' {
			dots++
		}
		mod := m[1][dots:]
		dotsPrefix := strings.Repeat(".", dots)
		kind := "from"
		if dots > 0 {
			kind = "from_relative"
		}

		names := strings.Split(m[2], ",")
		for _, n := range names {
			n = strings.TrimSpace(strings.SplitN(strings.TrimSpace(n), " as ", 2)[0])
			n = strings.Trim(n, "()")
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			if n == "*" {
				facts.Imports = append(facts.Imports, model.ImportRef{Raw: dotsPrefix + mod, Kind: "import_star", Line: lineNo})
				continue
			}
			// "from a.b import c" prefers the submodule a.b.c, falling back
			// to a.b's module file (handled by the resolver).
			dotted := mod
			if mod != "" {
				dotted = mod + "." + n
			} else {
				dotted = n
			}
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: dotsPrefix + dotted, Kind: kind, Line: lineNo})
		}
		return
	}
	if m := reImport.FindStringSubmatch(line); m != nil {
		for _, part := range strings.Split(m[1], ",") {
			name := strings.TrimSpace(strings.SplitN(strings.TrimSpace(part), " as ", 2)[0])
			if name == "" {
				continue
			}
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: name, Kind: "import", Line: lineNo})
		}
	}
}

// modulePathOf computes the dotted module path for a file via its nearest
// ancestor package root, preferring the outermost root when nested.
func modulePathOf(root, relID string) string {
	dir := filepath.Dir(relID)
	if dir == "." {
		dir = ""
	}
	segments := strings.Split(dir, "/")

	outermostRoot := -1
	cur := ""
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if cur == "" {
			cur = seg
		} else {
			cur = cur + "/" + seg
		}
		if hasInit(root, cur) && outermostRoot == -1 {
			outermostRoot = i
		}
	}
	if outermostRoot == -1 {
		base := strings.TrimSuffix(filepath.Base(relID), ".py")
		return base
	}

	rootSegs := segments[outermostRoot:]
	base := strings.TrimSuffix(filepath.Base(relID), ".py")
	if base == "__init__" {
		return strings.Join(rootSegs, ".")
	}
	return strings.Join(append(append([]string{}, rootSegs...), base), ".")
}

func hasInit(root, dir string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir), "__init__.py"))
	return err == nil
}

func resolve(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	if strings.HasPrefix(imp.Raw, ".") {
		return resolveRelative(idx, f, imp)
	}
	return resolveAbsolute(idx, imp.Raw, imp.Kind)
}

func resolveRelative(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	dots := 0
	for dots < len(imp.Raw) && imp.Raw[dots] == '.' {
		dots++
	}
	target := imp.Raw[dots:]

	pkgSegs := strings.Split(f.PackageOrModule, ".")
	if len(pkgSegs) > 0 {
		pkgSegs = pkgSegs[:len(pkgSegs)-1] // drop the importing module's own basename
	}
	up := dots - 1
	if up > len(pkgSegs) {
		up = len(pkgSegs)
	}

	walked := pkgSegs
	if up <= len(walked) {
		walked = walked[:len(walked)-up]
	} else {
		walked = nil
	}

	var abs string
	if target == "" {
		abs = strings.Join(walked, ".")
	} else if len(walked) == 0 {
		abs = target
	} else {
		abs = strings.Join(walked, ".") + "." + target
	}

	res := resolveAbsolute(idx, abs, imp.Kind)
	if res.Internal != "" || res.External != "" {
		return res
	}
	return crawler.Resolution{External: "pip:" + firstSegment(abs), Kind: imp.Kind, Certainty: model.CertaintyStatic}
}

func resolveAbsolute(idx *crawler.Index, dotted, kind string) crawler.Resolution {
	if dotted == "" {
		return crawler.Resolution{Skip: true}
	}
	relPath := strings.ReplaceAll(dotted, ".", "/")

	if cand := relPath + ".py"; fileExists(idx, cand) {
		return crawler.Resolution{Internal: cand, Kind: kind, Certainty: model.CertaintyStatic}
	}
	if cand := relPath + "/__init__.py"; fileExists(idx, cand) {
		return crawler.Resolution{Internal: cand, Kind: kind, Certainty: model.CertaintyStatic}
	}

	// "from a.b import c" falls back to a.b's module file if the submodule
	// itself doesn't resolve (prefers submodule file, tried above first).
	if idx2 := strings.LastIndex(relPath, "/"); idx2 >= 0 {
		parent := relPath[:idx2]
		if fileExists(idx, parent+".py") {
			return crawler.Resolution{Internal: parent + ".py", Kind: kind, Certainty: model.CertaintyStatic}
		}
		if fileExists(idx, parent+"/__init__.py") {
			return crawler.Resolution{Internal: parent + "/__init__.py", Kind: kind, Certainty: model.CertaintyStatic}
		}
	}

	return crawler.Resolution{External: "pip:" + firstSegment(dotted), Kind: kind, Certainty: model.CertaintyStatic}
}

func fileExists(idx *crawler.Index, rel string) bool {
	_, ok := idx.Files[rel]
	return ok
}

func firstSegment(dotted string) string {
	if i := strings.IndexByte(dotted, '.'); i >= 0 {
		return dotted[:i]
	}
	return dotted
}

func discoverEntries(idx *crawler.Index) map[string]bool {
	entries := map[string]bool{}

	if data, err := os.ReadFile(filepath.Join(idx.Root, "pyproject.toml")); err == nil {
		collectScriptTargets(idx, string(data), entries)
	}
	if data, err := os.ReadFile(filepath.Join(idx.Root, "setup.cfg")); err == nil {
		collectConsoleScripts(idx, string(data), entries)
	}

	return entries
}

var reScriptValue = regexp.MustCompile(`=\s*"?([\w\.]+):[\w\.]+"?`)

// collectScriptTargets scans [project.scripts] and [tool.poetry.scripts]
// tables of pyproject.toml for `name = "pkg.module:func"` entries.
func collectScriptTargets(idx *crawler.Index, toml string, entries map[string]bool) {
	inScripts := false
	for _, line := range strings.Split(toml, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inScripts = trimmed == "[project.scripts]" || trimmed == "[tool.poetry.scripts]"
			continue
		}
		if !inScripts {
			continue
		}
		if m := reScriptValue.FindStringSubmatch(trimmed); m != nil {
			markModuleEntry(idx, m[1], entries)
		}
	}
}

// collectConsoleScripts scans a [console_scripts] table of setup.cfg for
// `name = pkg.module:func` entries.
func collectConsoleScripts(idx *crawler.Index, cfg string, entries map[string]bool) {
	inSection := false
	for _, line := range strings.Split(cfg, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inSection = trimmed == "[console_scripts]" || trimmed == "[options.entry_points]"
			continue
		}
		if !inSection {
			continue
		}
		if i := strings.Index(trimmed, "="); i >= 0 {
			val := strings.TrimSpace(trimmed[i+1:])
			if j := strings.IndexByte(val, ':'); j >= 0 {
				markModuleEntry(idx, val[:j], entries)
			}
		}
	}
}

func markModuleEntry(idx *crawler.Index, dotted string, entries map[string]bool) {
	relPath := strings.ReplaceAll(strings.TrimSpace(dotted), ".", "/")
	if fileExists(idx, relPath+".py") {
		entries[relPath+".py"] = true
		return
	}
	if fileExists(idx, relPath+"/__init__.py") {
		entries[relPath+"/__init__.py"] = true
	}
}
