package classify

import (
	"regexp"
	"sort"

	"github.com/1homsi/depscope/internal/model"
)

// Annotation is the per-node, per-profile classification result attached to
// the merged graph JSON (spec §6): statusByProfile, primaryByProfile, and
// the list of profiles the node is reachable in at all.
type Annotation struct {
	StatusByProfile   map[string][]Status
	PrimaryByProfile  map[string]Status
	ReachableProfiles []string
}

// Result is the full classification output, keyed by node id.
type Result struct {
	Annotations map[string]*Annotation
	Entrypoints []string
}

// Classify runs the classification engine over a merged graph state for the
// given profiles and keep-rule regexes (spec §4.7). It never fails: a
// missing entrypoint list falls back to the first node, and an empty graph
// yields an empty result (spec §7).
func Classify(state *model.GraphState, profiles []model.Profile, keepRules []*regexp.Regexp) *Result {
	nodes, edges := state.Snapshot()

	if len(profiles) == 0 {
		profiles = []model.Profile{{Name: "default"}}
	}

	entries := make(map[string]bool, len(state.Entrypoints))
	for id := range state.Entrypoints {
		entries[id] = true
	}
	if len(entries) == 0 {
		if first := firstNodeID(nodes); first != "" {
			entries[first] = true
		}
	}

	reachByProfile := make(map[string]profileReach, len(profiles))
	for _, p := range profiles {
		reachByProfile[p.Name] = computeProfileReach(entries, edges, p)
	}

	reachableAnyProfile := make(map[string]bool)
	for _, r := range reachByProfile {
		for id := range r.all {
			reachableAnyProfile[id] = true
		}
	}

	dynamicEvidence := dynamicEvidenceSet(edges)

	result := &Result{Annotations: make(map[string]*Annotation, len(nodes))}
	for id := range entries {
		result.Entrypoints = append(result.Entrypoints, id)
	}
	sort.Strings(result.Entrypoints)

	for id := range nodes {
		ann := &Annotation{
			StatusByProfile:  make(map[string][]Status, len(profiles)),
			PrimaryByProfile: make(map[string]Status, len(profiles)),
		}

		for _, p := range profiles {
			r := reachByProfile[p.Name]
			set := map[Status]bool{}

			if !reachableAnyProfile[id] {
				set[StatusDisconnectedAllProfile] = true
			}

			reachedHere := r.all[id]
			if reachedHere {
				set[StatusReachableCurrent] = true
				if !r.noDeferred[id] {
					set[StatusDeferredOnly] = true
				}
				if !r.noDynamic[id] {
					set[StatusDynamicOnly] = true
				}
			} else if matchesAny(id, keepRules) || dynamicEvidence[id] {
				set[StatusDynamicOnly] = true
			}

			if !r.runtimeOnly[id] {
				if r.test[id] {
					set[StatusTestOnly] = true
				}
				if r.build[id] {
					set[StatusBuildTimeOnly] = true
				}
			}

			if !reachedHere {
				for otherName, otherReach := range reachByProfile {
					if otherName != p.Name && otherReach.all[id] {
						set[StatusReachableOtherProfile] = true
						break
					}
				}
			}

			var list []Status
			for _, s := range priorityOrder {
				if set[s] {
					list = append(list, s)
				}
			}
			ann.StatusByProfile[p.Name] = list
			ann.PrimaryByProfile[p.Name] = primaryOf(set)
			if reachedHere {
				ann.ReachableProfiles = append(ann.ReachableProfiles, p.Name)
			}
		}

		sort.Strings(ann.ReachableProfiles)
		result.Annotations[id] = ann
	}

	return result
}

func firstNodeID(nodes map[string]*model.Node) string {
	var ids []string
	for id := range nodes {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}

// dynamicEvidenceSet marks every node with at least one incoming dynamic
// edge anywhere in the graph, independent of profile activity — used as the
// fallback "has dynamic evidence" test for unreached dynamic_only nodes.
func dynamicEvidenceSet(edges []*model.Edge) map[string]bool {
	out := make(map[string]bool)
	for _, e := range edges {
		if isDynamicEdge(e) {
			out[e.Target] = true
		}
	}
	return out
}
