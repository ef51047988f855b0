package classify

import "github.com/1homsi/depscope/internal/model"

// edgeFilter decides whether an edge should be traversed when computing one
// of the six named reachability sets for a profile.
type edgeFilter func(e *model.Edge) bool

// profileReach holds the six reachability sets computed for one profile
// (spec §4.7).
type profileReach struct {
	all         map[string]bool
	noDeferred  map[string]bool
	noDynamic   map[string]bool
	runtimeOnly map[string]bool
	test        map[string]bool
	build       map[string]bool
}

func computeProfileReach(entries map[string]bool, edges []*model.Edge, p model.Profile) profileReach {
	active := make([]*model.Edge, 0, len(edges))
	for _, e := range edges {
		if isEdgeActiveInProfile(e, p) {
			active = append(active, e)
		}
	}

	return profileReach{
		all:        bfsFiltered(entries, active, func(e *model.Edge) bool { return true }),
		noDeferred: bfsFiltered(entries, active, func(e *model.Edge) bool { return !isDeferredEdge(e) }),
		noDynamic:  bfsFiltered(entries, active, func(e *model.Edge) bool { return !isDynamicEdge(e) }),
		runtimeOnly: bfsFiltered(entries, active, func(e *model.Edge) bool {
			return edgePhase(e) == PhaseRuntime
		}),
		test: bfsFiltered(entries, active, func(e *model.Edge) bool {
			return edgePhase(e) != PhaseBuild
		}),
		build: bfsFiltered(entries, active, func(e *model.Edge) bool {
			return edgePhase(e) != PhaseTest
		}),
	}
}

func bfsFiltered(entries map[string]bool, edges []*model.Edge, keep edgeFilter) map[string]bool {
	adjacency := make(map[string][]string)
	for _, e := range edges {
		if !keep(e) {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
	}

	visited := make(map[string]bool)
	var queue []string
	for id := range entries {
		if !visited[id] {
			visited[id] = true
			queue = append(queue, id)
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
