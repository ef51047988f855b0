// Package rust implements the Rust crawler: `mod`/`use`/`extern crate`
// extraction with brace-group expansion, and `fn main()` + Cargo `[[bin]]`
// entry discovery (spec §4.2, §4.3).
package rust

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/sanitize"
)

var (
	reMod         = regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?mod\s+(\w+)\s*;`)
	reUse         = regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?use\s+([\w:]+(?:::\{[^}]*\})?(?:::\*)?)\s*;`)
	reExternCrate = regexp.MustCompile(`^\s*extern\s+crate\s+(\w+)\s*;`)
	reFnMain      = regexp.MustCompile(`^\s*(?:pub\s+)?(?:async\s+)?fn\s+main\s*\(\s*\)`)
)

// Spec returns the Rust crawler.LanguageSpec.
func Spec() crawler.LanguageSpec {
	return crawler.LanguageSpec{
		Lang:            model.LangRust,
		Extensions:      []string{".rs"},
		Dialect:         sanitize.Rust,
		Extract:         extract,
		Resolve:         resolve,
		DiscoverEntries: discoverEntries,
	}
}

func extract(root, absPath, relID, raw, commentsBlanked string) (model.FileFacts, error) {
	var facts model.FileFacts

	lines := strings.Split(commentsBlanked, "\n")
	for i, line := range lines {
		lineNo := i + 1

		if m := reMod.FindStringSubmatch(line); m != nil {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "mod", Line: lineNo})
		}
		if m := reExternCrate.FindStringSubmatch(line); m != nil {
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "extern", Line: lineNo})
		}
		if m := reUse.FindStringSubmatch(line); m != nil {
			for _, expanded := range expandBraces(m[1]) {
				facts.Imports = append(facts.Imports, model.ImportRef{Raw: expanded, Kind: "use", Line: lineNo})
			}
		}
		if reFnMain.MatchString(line) {
			facts.EntryMarker = true
		}
	}

	return facts, nil
}

// expandBraces expands `foo::{a,b::c}` into ["foo::a", "foo::b::c"]. Paths
// without a brace group are returned unchanged (minus a trailing `::*`).
func expandBraces(path string) []string {
	path = strings.TrimSuffix(path, "::*")
	i := strings.Index(path, "::{")
	if i < 0 {
		return []string{path}
	}
	prefix := path[:i]
	rest := path[i+3:]
	j := strings.LastIndex(rest, "}")
	if j < 0 {
		return []string{path}
	}
	inner := rest[:j]
	var out []string
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "self" {
			out = append(out, prefix)
			continue
		}
		out = append(out, prefix+"::"+part)
	}
	return out
}

func resolve(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	path := imp.Raw

	switch {
	case strings.HasPrefix(path, "crate::"):
		return resolveFromRoot(idx, strings.TrimPrefix(path, "crate::"), imp.Kind)
	case strings.HasPrefix(path, "self::"):
		return resolveFromDir(idx, filepath.Dir(f.RelID), strings.TrimPrefix(path, "self::"), imp.Kind)
	case strings.HasPrefix(path, "super::"):
		return resolveFromDir(idx, filepath.Dir(filepath.Dir(f.RelID)), strings.TrimPrefix(path, "super::"), imp.Kind)
	}

	if imp.Kind == "mod" {
		return resolveFromDir(idx, filepath.Dir(f.RelID), path, imp.Kind)
	}

	first := firstSegment(path)
	if declaredDeps[first] {
		return crawler.Resolution{External: "crate:" + first, Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}
	if res := resolveFromRoot(idx, path, imp.Kind); res.Internal != "" {
		return res
	}
	return crawler.Resolution{External: "crate:" + first, Kind: imp.Kind, Certainty: model.CertaintyHeuristic}
}

func resolveFromDir(idx *crawler.Index, dir, name string, kind string) crawler.Resolution {
	name = strings.ReplaceAll(firstSegment(name), "::", "/")
	for _, cand := range []string{
		filepath.ToSlash(filepath.Join(dir, name+".rs")),
		filepath.ToSlash(filepath.Join(dir, name, "mod.rs")),
	} {
		if _, ok := idx.Files[cand]; ok {
			return crawler.Resolution{Internal: cand, Kind: kind, Certainty: model.CertaintyStatic}
		}
	}
	return crawler.Resolution{Skip: true}
}

func resolveFromRoot(idx *crawler.Index, path string, kind string) crawler.Resolution {
	rel := strings.ReplaceAll(path, "::", "/")
	for _, root := range []string{"src", ""} {
		for _, cand := range []string{
			filepath.ToSlash(filepath.Join(root, rel+".rs")),
			filepath.ToSlash(filepath.Join(root, rel, "mod.rs")),
		} {
			if _, ok := idx.Files[cand]; ok {
				return crawler.Resolution{Internal: cand, Kind: kind, Certainty: model.CertaintyStatic}
			}
		}
	}
	return crawler.Resolution{}
}

func firstSegment(path string) string {
	if i := strings.Index(path, "::"); i >= 0 {
		return path[:i]
	}
	return path
}

// declaredDeps is populated once per crawl root from Cargo.toml's
// [dependencies] and [dev-dependencies] tables.
var declaredDeps = map[string]bool{}

func loadCargoDeps(root string) {
	declaredDeps = map[string]bool{}
	data, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return
	}
	inDeps := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inDeps = trimmed == "[dependencies]" || trimmed == "[dev-dependencies]"
			continue
		}
		if !inDeps {
			continue
		}
		if i := strings.Index(trimmed, "="); i > 0 {
			declaredDeps[strings.TrimSpace(trimmed[:i])] = true
		}
	}
}

var reBinPath = regexp.MustCompile(`^\s*path\s*=\s*"([^"]+)"`)

// collectCargoBinPaths scans Cargo.toml [[bin]] tables for an explicit
// `path = "..."` entry, marking each as a discovered entry.
func collectCargoBinPaths(root string, entries map[string]bool) {
	data, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		return
	}
	inBin := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[[") {
			inBin = trimmed == "[[bin]]"
			continue
		}
		if strings.HasPrefix(trimmed, "[") {
			inBin = false
			continue
		}
		if !inBin {
			continue
		}
		if m := reBinPath.FindStringSubmatch(trimmed); m != nil {
			entries[filepath.ToSlash(m[1])] = true
		}
	}
}

func discoverEntries(idx *crawler.Index) map[string]bool {
	loadCargoDeps(idx.Root)

	entries := map[string]bool{}
	for rel, f := range idx.Files {
		if f.EntryMarker {
			entries[rel] = true
		}
	}
	if _, ok := idx.Files["src/main.rs"]; ok {
		entries["src/main.rs"] = true
	}
	collectCargoBinPaths(idx.Root, entries)
	return entries
}
