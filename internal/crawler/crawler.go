// Package crawler implements the shared walk -> parse -> resolve -> classify
// -> emit contract every language crawler realizes (spec §2, §4.2, §4.5,
// §4.8). Language packages under internal/lang/* supply only the
// language-specific Extract/Resolve/DiscoverEntries hooks; this package
// owns the walk, the bounded worker pool, the graph builder, reachability,
// and the deterministic emitter.
package crawler

import (
	"context"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sync/semaphore"

	"github.com/1homsi/depscope/internal/logging"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/pathutil"
	"github.com/1homsi/depscope/internal/rules"
	"github.com/1homsi/depscope/internal/sanitize"
)

// Resolution is what a language's Resolve hook returns for one import
// reference: either an internal file (by relID) or an external identifier.
// Wildcard-style references (Java/Kotlin `import a.b.*`, C# namespace peers)
// resolve to every matching internal file via Internals.
type Resolution struct {
	Kind      string
	Certainty model.Certainty
	Internal  string   // relId, set when the reference resolves inside the repo
	Internals []string // set instead of Internal for a one-to-many (wildcard) reference
	External  string   // external id, set when the reference resolves outside it
	Skip      bool     // true when the reference should produce no edge at all
}

// Index is the read-only, fully-parsed view of a crawl available to the
// resolver and entry-discovery hooks.
type Index struct {
	Root      string
	Files     map[string]*model.FileFacts // by relID
	ByAbs     map[string]string           // absPath -> relID
	Ordered   []string                    // relIDs in lexicographic order
}

// LanguageSpec is the contract a language package implements.
type LanguageSpec struct {
	Lang       string
	Extensions []string
	Dialect    sanitize.Dialect

	// Extract receives raw text and a comments-blanked (strings intact) view;
	// the full string-and-comment-blanked view used by the security engine
	// is computed separately.
	Extract         func(root, absPath, relID string, raw, commentsBlanked string) (model.FileFacts, error)
	Resolve         func(idx *Index, f *model.FileFacts, imp model.ImportRef) Resolution
	DiscoverEntries func(idx *Index) map[string]bool

	SideEffectAware  bool // JS: files imported only via side_effect edges get state side_effect_only
	EscalateOnDegree bool // dart: unreached files with inDeg+outDeg>0 escalate to used

	SecurityCatalog *rules.Catalog // nil if the language has no security rule engine
}

// Artifact is a fully-built crawler output, ready for emission.
type Artifact struct {
	Nodes            []*model.Node
	Edges            []*model.Edge
	Libraries        []string
	Entries          []string
	Exports          map[string]model.ExportSummary
	SecurityFindings map[string][]model.Finding
}

const maxWorkers = 8

// Run executes the full crawl of root for one language and returns the
// artifact ready for emission.
func Run(root string, spec LanguageSpec) (*Artifact, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("invalid input root %q: %w", root, err)
	}

	type rawFile struct {
		abs string
		rel string
	}
	var files []rawFile
	extSet := make(map[string]bool, len(spec.Extensions))
	for _, e := range spec.Extensions {
		extSet[e] = true
	}

	err := pathutil.Walk(root, func(abs string, info os.FileInfo) error {
		if !extSet[ext(abs)] {
			return nil
		}
		files = append(files, rawFile{abs: abs, rel: pathutil.RelID(root, abs)})
		return nil
	})
	if err != nil {
		logging.Warnf("[%s] walk error under %s: %v", spec.Lang, root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })

	idx := &Index{
		Root:  root,
		Files: make(map[string]*model.FileFacts, len(files)),
		ByAbs: make(map[string]string, len(files)),
	}

	sem := semaphore.NewWeighted(maxWorkers)
	ctx := context.Background()
	resultsCh := make(chan struct {
		rel   string
		facts model.FileFacts
		err   error
	}, len(files))

	for _, f := range files {
		f := f
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		go func() {
			defer sem.Release(1)
			data, err := os.ReadFile(f.abs)
			if err != nil {
				logging.Warnf("[%s] unreadable file %s: %v", spec.Lang, f.abs, err)
				resultsCh <- struct {
					rel   string
					facts model.FileFacts
					err   error
				}{f.rel, model.FileFacts{}, err}
				return
			}
			raw := string(data)
			// Fact extraction parses comments-blanked text: specifiers live
			// inside string literals, which the full security sanitizer
			// below deliberately erases.
			commentsBlanked := sanitize.BlankComments(raw, spec.Dialect)
			facts, err := spec.Extract(root, f.abs, f.rel, raw, commentsBlanked)
			if err != nil {
				logging.Warnf("[%s] parse anomaly in %s: %v", spec.Lang, f.abs, err)
			}
			facts.AbsPath = f.abs
			facts.RelID = f.rel
			facts.LOC = pathutil.LOC(raw)
			facts.SHA256 = pathutil.SHA256Hex(data)
			if spec.SecurityCatalog != nil {
				san := sanitize.Sanitize(raw, spec.Dialect)
				facts.Findings = spec.SecurityCatalog.Evaluate(f.rel, raw, san)
			}
			resultsCh <- struct {
				rel   string
				facts model.FileFacts
				err   error
			}{f.rel, facts, nil}
		}()
	}

	for range files {
		r := <-resultsCh
		if r.err != nil {
			continue
		}
		facts := r.facts
		idx.Files[r.rel] = &facts
		idx.ByAbs[facts.AbsPath] = r.rel
	}
	for _, f := range files {
		if _, ok := idx.Files[f.rel]; ok {
			idx.Ordered = append(idx.Ordered, f.rel)
		}
	}
	sort.Strings(idx.Ordered)

	entries := map[string]bool{}
	if spec.DiscoverEntries != nil {
		entries = spec.DiscoverEntries(idx)
	}
	for rel, f := range idx.Files {
		if f.EntryMarker {
			entries[rel] = true
		}
	}
	if len(entries) == 0 && len(idx.Ordered) > 0 {
		entries[idx.Ordered[0]] = true
	}

	return build(idx, spec, entries), nil
}

func ext(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}
