// Package java implements the Java crawler: `package`/`import [static]`
// extraction, FQN-map resolution with wildcard expansion, and
// `public static void main` entry discovery (spec §4.2, §4.3).
package java

import (
	"regexp"
	"sort"
	"strings"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/sanitize"
)

var (
	rePackage = regexp.MustCompile(`^\s*package\s+([\w\.]+)\s*;`)
	reImport  = regexp.MustCompile(`^\s*import\s+(static\s+)?([\w\.]+(?:\.\*)?)\s*;`)
	reMain    = regexp.MustCompile(`\bpublic\s+static\s+void\s+main\s*\(\s*String\s*(\[\]|\.\.\.)\s*\w*\s*\)`)
)

// Spec returns the Java crawler.LanguageSpec.
func Spec() crawler.LanguageSpec {
	return crawler.LanguageSpec{
		Lang:            model.LangJava,
		Extensions:      []string{".java"},
		Dialect:         sanitize.Java,
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

		if m := rePackage.FindStringSubmatch(line); m != nil {
			facts.PackageOrModule = m[1]
		}
		if m := reImport.FindStringSubmatch(line); m != nil {
			kind := "import"
			if m[1] != "" {
				kind = "import_static"
			}
			if strings.HasSuffix(m[2], ".*") {
				kind = "import_wildcard"
			}
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[2], Kind: kind, Line: lineNo})
		}
		if reMain.MatchString(line) {
			facts.EntryMarker = true
		}
	}

	if facts.PackageOrModule != "" {
		base := strings.TrimSuffix(baseName(relID), ".java")
		facts.DeclaredNames = append(facts.DeclaredNames, facts.PackageOrModule+"."+base)
	} else {
		facts.DeclaredNames = append(facts.DeclaredNames, strings.TrimSuffix(baseName(relID), ".java"))
	}

	return facts, nil
}

func baseName(relID string) string {
	if i := strings.LastIndexByte(relID, '/'); i >= 0 {
		return relID[i+1:]
	}
	return relID
}

// fqnIndex maps a declared FQN to the file declaring it, built once per
// crawl (memoized by root).
var fqnIndex = map[string]map[string]string{}

func buildFQNIndex(idx *crawler.Index) map[string]string {
	if m, ok := fqnIndex[idx.Root]; ok {
		return m
	}
	m := map[string]string{}
	for rel, f := range idx.Files {
		for _, fqn := range f.DeclaredNames {
			m[fqn] = rel
		}
	}
	fqnIndex[idx.Root] = m
	return m
}

func resolve(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	m := buildFQNIndex(idx)
	fqn := strings.TrimSuffix(imp.Raw, ".*")

	if imp.Kind == "import_static" {
		if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
			fqn = fqn[:i]
		}
	}

	if imp.Kind == "import_wildcard" {
		if targets := wildcardMatches(m, fqn); len(targets) > 0 {
			return crawler.Resolution{Internals: targets, Kind: imp.Kind, Certainty: model.CertaintyStatic}
		}
	}

	if rel, ok := m[fqn]; ok {
		return crawler.Resolution{Internal: rel, Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}

	if strings.HasPrefix(fqn, "java.") || strings.HasPrefix(fqn, "javax.") {
		return crawler.Resolution{External: "java:" + firstTwoSegments(fqn), Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}
	return crawler.Resolution{External: "mvn:" + firstTwoSegments(fqn), Kind: imp.Kind, Certainty: model.CertaintyHeuristic}
}

func wildcardMatches(m map[string]string, prefix string) []string {
	seen := map[string]bool{}
	var out []string
	for declFQN, rel := range m {
		if !strings.HasPrefix(declFQN, prefix+".") {
			continue
		}
		if !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	sort.Strings(out)
	return out
}

func firstTwoSegments(fqn string) string {
	parts := strings.Split(fqn, ".")
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1]
	}
	return parts[0]
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
