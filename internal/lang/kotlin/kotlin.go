// Package kotlin implements the Kotlin crawler: `package`/`import … [as x]`
// extraction, FQN-map resolution shared with the Java style, wildcard
// expansion against both FQN and package maps, a package-map fallback for
// imports that name a package, and `fun main(` entry discovery (spec §4.2,
// §4.3).
package kotlin

import (
	"regexp"
	"sort"
	"strings"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/sanitize"
)

var (
	rePackage = regexp.MustCompile(`^\s*package\s+([\w\.]+)`)
	reImport  = regexp.MustCompile(`^\s*import\s+([\w\.]+(?:\.\*)?)(?:\s+as\s+(\w+))?`)
	reFnMain  = regexp.MustCompile(`\bfun\s+main\s*\(`)
)

// Spec returns the Kotlin crawler.LanguageSpec.
func Spec() crawler.LanguageSpec {
	return crawler.LanguageSpec{
		Lang:            model.LangKotlin,
		Extensions:      []string{".kt", ".kts"},
		Dialect:         sanitize.Kotlin,
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
			if strings.HasSuffix(m[1], ".*") {
				kind = "import_wildcard"
			}
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: kind, Line: lineNo})
		}
		if reFnMain.MatchString(line) {
			facts.EntryMarker = true
		}
	}

	if facts.PackageOrModule != "" {
		base := strings.TrimSuffix(baseName(relID), extOf(relID))
		facts.DeclaredNames = append(facts.DeclaredNames, facts.PackageOrModule+"."+base)
	} else {
		facts.DeclaredNames = append(facts.DeclaredNames, strings.TrimSuffix(baseName(relID), extOf(relID)))
	}

	return facts, nil
}

func baseName(relID string) string {
	if i := strings.LastIndexByte(relID, '/'); i >= 0 {
		return relID[i+1:]
	}
	return relID
}

func extOf(relID string) string {
	if i := strings.LastIndexByte(relID, '.'); i >= 0 {
		return relID[i:]
	}
	return ""
}

// fqnIndex maps a declared FQN to the file declaring it; packageIndex maps a
// package name to every file declaring it (used for both wildcard expansion
// and the directory-enumeration fallback), memoized per crawl root.
var fqnIndex = map[string]map[string]string{}
var packageIndex = map[string]map[string][]string{}

func buildIndexes(idx *crawler.Index) (map[string]string, map[string][]string) {
	if m, ok := fqnIndex[idx.Root]; ok {
		return m, packageIndex[idx.Root]
	}
	fqn := map[string]string{}
	pkg := map[string][]string{}
	for rel, f := range idx.Files {
		for _, n := range f.DeclaredNames {
			fqn[n] = rel
		}
		if f.PackageOrModule != "" {
			pkg[f.PackageOrModule] = append(pkg[f.PackageOrModule], rel)
		}
	}
	fqnIndex[idx.Root] = fqn
	packageIndex[idx.Root] = pkg
	return fqn, pkg
}

func resolve(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	fqnMap, pkgMap := buildIndexes(idx)
	fqn := strings.TrimSuffix(imp.Raw, ".*")

	if imp.Kind == "import_wildcard" {
		var targets []string
		seen := map[string]bool{}
		for declFQN, rel := range fqnMap {
			if strings.HasPrefix(declFQN, fqn+".") && !seen[rel] {
				seen[rel] = true
				targets = append(targets, rel)
			}
		}
		for _, rel := range pkgMap[fqn] {
			if !seen[rel] {
				seen[rel] = true
				targets = append(targets, rel)
			}
		}
		if len(targets) > 0 {
			sort.Strings(targets)
			return crawler.Resolution{Internals: targets, Kind: imp.Kind, Certainty: model.CertaintyStatic}
		}
	}

	if rel, ok := fqnMap[fqn]; ok {
		return crawler.Resolution{Internal: rel, Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}

	// package fallback: an import naming a package resolves to every file
	// that declares that package. Files are matched by their package
	// declaration only; directories under source roots are not enumerated.
	if rels := pkgMap[fqn]; len(rels) > 0 {
		sort.Strings(rels)
		return crawler.Resolution{Internals: rels, Kind: imp.Kind, Certainty: model.CertaintyHeuristic}
	}

	if strings.HasPrefix(fqn, "kotlin.") {
		return crawler.Resolution{External: "kotlin:" + firstTwoSegments(fqn), Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}
	if strings.HasPrefix(fqn, "java.") || strings.HasPrefix(fqn, "javax.") {
		return crawler.Resolution{External: "java:" + firstTwoSegments(fqn), Kind: imp.Kind, Certainty: model.CertaintyStatic}
	}
	return crawler.Resolution{External: "mvn:" + firstTwoSegments(fqn), Kind: imp.Kind, Certainty: model.CertaintyHeuristic}
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
