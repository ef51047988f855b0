package crawler

import (
	"sort"

	"github.com/1homsi/depscope/internal/model"
)

// build realizes §4.5 (graph builder) for one crawl: materialize file
// nodes, resolve every import into an edge (internal or external),
// dedup, compute degrees, run reachability from entries, assign state,
// and sort for deterministic emission.
func build(idx *Index, spec LanguageSpec, entries map[string]bool) *Artifact {
	nodes := make(map[string]*model.Node)
	adjacency := make(map[string][]string) // file relID/external id -> targets reached (files only matter for BFS)
	edgeSet := make(map[string]*model.Edge)

	for _, rel := range idx.Ordered {
		f := idx.Files[rel]
		nodes[rel] = &model.Node{
			ID: rel, Type: model.NodeFile, State: model.StateUnused,
			Lang: spec.Lang, SizeLOC: f.LOC, HasSizeLOC: true,
			SHA256: f.SHA256, HasSideEffects: f.HasSideEffects,
		}
		if f.PackageOrModule != "" {
			nodes[rel].IdentityKind = identityKindFor(spec.Lang)
			nodes[rel].Identity = f.PackageOrModule
		}
	}

	libSet := make(map[string]bool)
	sideEffectOnlyCandidate := make(map[string]bool) // file has incoming side_effect edges only so far
	hasOwnImports := make(map[string]bool)

	addEdge := func(rel, target, kind string, certainty model.Certainty) {
		e := &model.Edge{Source: rel, Target: target, Kind: kind, Certainty: certainty}
		key := e.Key()
		if _, dup := edgeSet[key]; dup {
			return
		}
		edgeSet[key] = e
		adjacency[rel] = append(adjacency[rel], target)

		hasOwnImports[rel] = true
		if kind != "side_effect" {
			sideEffectOnlyCandidate[target] = false
		} else if _, set := sideEffectOnlyCandidate[target]; !set {
			sideEffectOnlyCandidate[target] = true
		}
	}

	for _, rel := range idx.Ordered {
		f := idx.Files[rel]
		for _, imp := range f.Imports {
			res := spec.Resolve(idx, f, imp)
			if res.Skip {
				continue
			}

			if len(res.Internals) > 0 {
				for _, target := range res.Internals {
					if _, ok := nodes[target]; !ok {
						continue
					}
					addEdge(rel, target, res.Kind, res.Certainty)
				}
				continue
			}

			var target string
			if res.Internal != "" {
				target = res.Internal
				if _, ok := nodes[target]; !ok {
					// resolver pointed at a file not in the index; treat as miss, skip
					continue
				}
			} else if res.External != "" {
				target = res.External
				if _, ok := nodes[target]; !ok {
					nodes[target] = &model.Node{ID: target, Type: model.NodeExternal, State: model.StateUsed, Lang: model.LangExternal}
				}
				libSet[target] = true
			} else {
				continue
			}

			addEdge(rel, target, res.Kind, res.Certainty)
		}
	}

	edges := make([]*model.Edge, 0, len(edgeSet))
	for _, e := range edgeSet {
		edges = append(edges, e)
	}

	for _, e := range edges {
		if n, ok := nodes[e.Target]; ok {
			n.InDeg++
		}
		if n, ok := nodes[e.Source]; ok {
			n.OutDeg++
		}
	}

	reached := bfs(entries, adjacency)

	for rel, n := range nodes {
		if n.Type == model.NodeExternal {
			n.State = model.StateUsed
			continue
		}
		if reached[rel] {
			if spec.SideEffectAware && sideEffectOnlyCandidate[rel] && !hasOwnImports[rel] {
				n.State = model.StateSideEffectOnly
			} else {
				n.State = model.StateUsed
			}
			continue
		}
		n.State = model.StateUnused
		if spec.EscalateOnDegree && (n.InDeg+n.OutDeg) > 0 {
			n.State = model.StateUsed
		}
	}

	exports := make(map[string]model.ExportSummary)
	findings := make(map[string][]model.Finding)
	for rel, f := range idx.Files {
		if len(f.Exports) > 0 {
			exports[rel] = f.Exports
		}
		if len(f.Findings) > 0 {
			findings[rel] = f.Findings
		}
	}

	nodeList := make([]*model.Node, 0, len(nodes))
	for _, n := range nodes {
		nodeList = append(nodeList, n)
	}
	sort.Slice(nodeList, func(i, j int) bool { return nodeList[i].ID < nodeList[j].ID })
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		if edges[i].Target != edges[j].Target {
			return edges[i].Target < edges[j].Target
		}
		return edges[i].Kind < edges[j].Kind
	})

	libs := make([]string, 0, len(libSet))
	for l := range libSet {
		libs = append(libs, l)
	}
	sort.Strings(libs)

	entryList := make([]string, 0, len(entries))
	for e := range entries {
		entryList = append(entryList, e)
	}
	sort.Strings(entryList)

	return &Artifact{
		Nodes: nodeList, Edges: edges, Libraries: libs, Entries: entryList,
		Exports: exports, SecurityFindings: findings,
	}
}

func identityKindFor(lang string) model.IdentityKind {
	switch lang {
	case model.LangJavaScript:
		return model.IdentityNone
	case model.LangPython:
		return model.IdentityModule
	case model.LangGo:
		return model.IdentityPackage
	case model.LangRust:
		return model.IdentityCrate
	case model.LangJava, model.LangKotlin:
		return model.IdentityFQN
	case model.LangCSharp:
		return model.IdentityNamespace
	case model.LangDart:
		return model.IdentityDeclaration
	default:
		return model.IdentityNone
	}
}

// bfs returns the set of file relIDs reachable from entries over adjacency.
// Only file nodes are traversed further; external ids are leaves (they
// appear as visited but contribute no outgoing edges since adjacency has no
// entry for them).
func bfs(entries map[string]bool, adjacency map[string][]string) map[string]bool {
	visited := make(map[string]bool)
	var queue []string
	for e := range entries {
		if !visited[e] {
			visited[e] = true
			queue = append(queue, e)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
