// Package csharp implements the C# crawler: file-scoped/block `namespace`
// extraction, `using`/`global using`/`using static`/`using Alias = …`
// extraction, anchor-file namespace resolution with mutual `namespace_peer`
// heuristic edges, and Main-method/Program.cs/`<OutputType>Exe</OutputType>`
// entry discovery (spec §4.2, §4.3, §9 open question on namespace_peer).
package csharp

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/sanitize"
)

var (
	reNamespaceFileScoped = regexp.MustCompile(`^\s*namespace\s+([\w\.]+)\s*;`)
	reNamespaceBlock      = regexp.MustCompile(`^\s*namespace\s+([\w\.]+)\s*\{?`)
	reGlobalUsing         = regexp.MustCompile(`^\s*global\s+using\s+([\w\.]+)\s*;`)
	reUsingStatic         = regexp.MustCompile(`^\s*using\s+static\s+([\w\.]+)\s*;`)
	reUsingAlias          = regexp.MustCompile(`^\s*using\s+\w+\s*=\s*([\w\.]+)\s*;`)
	reUsing               = regexp.MustCompile(`^\s*using\s+([\w\.]+)\s*;`)
	reMain                = regexp.MustCompile(`\bstatic\s+(?:async\s+)?(?:void|Task(?:<\w+>)?)\s+Main\s*\(`)
)

// Spec returns the C# crawler.LanguageSpec.
func Spec() crawler.LanguageSpec {
	return crawler.LanguageSpec{
		Lang:            model.LangCSharp,
		Extensions:      []string{".cs"},
		Dialect:         sanitize.CSharp,
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

		if m := reNamespaceFileScoped.FindStringSubmatch(line); m != nil {
			facts.PackageOrModule = m[1]
		} else if m := reNamespaceBlock.FindStringSubmatch(line); m != nil && facts.PackageOrModule == "" {
			facts.PackageOrModule = m[1]
		}

		switch {
		case reGlobalUsing.MatchString(line):
			m := reGlobalUsing.FindStringSubmatch(line)
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "using", Line: lineNo})
		case reUsingStatic.MatchString(line):
			m := reUsingStatic.FindStringSubmatch(line)
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "using_static", Line: lineNo})
		case reUsingAlias.MatchString(line):
			m := reUsingAlias.FindStringSubmatch(line)
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "using", Line: lineNo})
		case reUsing.MatchString(line):
			m := reUsing.FindStringSubmatch(line)
			facts.Imports = append(facts.Imports, model.ImportRef{Raw: m[1], Kind: "using", Line: lineNo})
		}

		if reMain.MatchString(line) {
			facts.EntryMarker = true
		}
	}

	if strings.EqualFold(baseName(relID), "program.cs") {
		facts.EntryMarker = true
	}

	if facts.PackageOrModule != "" {
		// the namespace_peer reference is resolved against every other file
		// declaring the same namespace, routed through a single anchor file.
		facts.Imports = append(facts.Imports, model.ImportRef{Raw: facts.PackageOrModule, Kind: "namespace_peer"})
	}

	return facts, nil
}

func baseName(relID string) string {
	if i := strings.LastIndexByte(relID, '/'); i >= 0 {
		return relID[i+1:]
	}
	return relID
}

// namespaceIndex maps a namespace to every file declaring it, and anchor
// caches the chosen anchor file per namespace, memoized per crawl root.
var namespaceIndex = map[string]map[string][]string{}
var anchorCache = map[string]map[string]string{}

func buildNamespaceIndex(idx *crawler.Index) map[string][]string {
	if m, ok := namespaceIndex[idx.Root]; ok {
		return m
	}
	m := map[string][]string{}
	for rel, f := range idx.Files {
		if f.PackageOrModule != "" {
			m[f.PackageOrModule] = append(m[f.PackageOrModule], rel)
		}
	}
	for ns := range m {
		sort.Strings(m[ns])
	}
	namespaceIndex[idx.Root] = m
	return m
}

// anchorFor returns the chosen anchor file for a namespace: the file whose
// stem case-insensitively equals the namespace's last segment, else the
// first file (by sorted order) declaring that namespace.
func anchorFor(idx *crawler.Index, ns string) string {
	cache, ok := anchorCache[idx.Root]
	if !ok {
		cache = map[string]string{}
		anchorCache[idx.Root] = cache
	}
	if a, ok := cache[ns]; ok {
		return a
	}
	files := buildNamespaceIndex(idx)[ns]
	if len(files) == 0 {
		return ""
	}
	last := ns
	if i := strings.LastIndexByte(ns, '.'); i >= 0 {
		last = ns[i+1:]
	}
	anchor := files[0]
	for _, rel := range files {
		stem := strings.TrimSuffix(baseName(rel), ".cs")
		if strings.EqualFold(stem, last) {
			anchor = rel
			break
		}
	}
	cache[ns] = anchor
	return anchor
}

func resolve(idx *crawler.Index, f *model.FileFacts, imp model.ImportRef) crawler.Resolution {
	if imp.Kind == "namespace_peer" {
		return resolveNamespacePeer(idx, f, imp.Raw)
	}
	if imp.Kind == "using_static" {
		return resolveUsingStatic(idx, imp.Raw)
	}
	return resolveUsing(idx, imp.Raw, imp.Kind)
}

func resolveNamespacePeer(idx *crawler.Index, f *model.FileFacts, ns string) crawler.Resolution {
	files := buildNamespaceIndex(idx)[ns]
	anchor := anchorFor(idx, ns)
	if anchor == "" {
		return crawler.Resolution{Skip: true}
	}
	if f.RelID == anchor {
		var peers []string
		for _, rel := range files {
			if rel != anchor {
				peers = append(peers, rel)
			}
		}
		if len(peers) == 0 {
			return crawler.Resolution{Skip: true}
		}
		return crawler.Resolution{Internals: peers, Kind: "namespace_peer", Certainty: model.CertaintyHeuristic}
	}
	return crawler.Resolution{Internal: anchor, Kind: "namespace_peer", Certainty: model.CertaintyHeuristic}
}

func resolveUsing(idx *crawler.Index, ns, kind string) crawler.Resolution {
	if anchor := anchorFor(idx, ns); anchor != "" {
		return crawler.Resolution{Internal: anchor, Kind: kind, Certainty: model.CertaintyStatic}
	}
	if ns == "System" || strings.HasPrefix(ns, "System.") {
		return crawler.Resolution{External: "dotnet:System", Kind: kind, Certainty: model.CertaintyStatic}
	}
	return crawler.Resolution{External: "nuget:" + firstTwoSegments(ns), Kind: kind, Certainty: model.CertaintyHeuristic}
}

func resolveUsingStatic(idx *crawler.Index, fqcn string) crawler.Resolution {
	i := strings.LastIndexByte(fqcn, '.')
	if i < 0 {
		return crawler.Resolution{External: "nuget:" + fqcn, Kind: "using_static", Certainty: model.CertaintyHeuristic}
	}
	nsPath, typeName := fqcn[:i], fqcn[i+1:]
	rel := strings.ReplaceAll(nsPath, ".", "/")
	for _, root := range []string{"", "src"} {
		cand := filepath.ToSlash(filepath.Join(root, rel, typeName+".cs"))
		if _, ok := idx.Files[cand]; ok {
			return crawler.Resolution{Internal: cand, Kind: "using_static", Certainty: model.CertaintyStatic}
		}
	}
	if nsPath == "System" || strings.HasPrefix(nsPath, "System.") {
		return crawler.Resolution{External: "dotnet:System", Kind: "using_static", Certainty: model.CertaintyStatic}
	}
	return crawler.Resolution{External: "nuget:" + firstTwoSegments(nsPath), Kind: "using_static", Certainty: model.CertaintyHeuristic}
}

func firstTwoSegments(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1]
	}
	return parts[0]
}

var reOutputTypeExe = regexp.MustCompile(`<OutputType>\s*Exe\s*</OutputType>`)

func discoverEntries(idx *crawler.Index) map[string]bool {
	entries := map[string]bool{}
	for rel, f := range idx.Files {
		if f.EntryMarker {
			entries[rel] = true
		}
	}

	matches, _ := filepath.Glob(filepath.Join(idx.Root, "*.csproj"))
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil || !reOutputTypeExe.Match(data) {
			continue
		}
		if _, ok := idx.Files["Program.cs"]; ok {
			entries["Program.cs"] = true
		}
	}

	return entries
}
