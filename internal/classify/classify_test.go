package classify

import (
	"testing"

	"github.com/1homsi/depscope/internal/model"
)

func buildState(t *testing.T, nodes []string, edges []*model.Edge, entries []string) *model.GraphState {
	t.Helper()
	state := model.NewGraphState()
	for _, id := range nodes {
		state.Nodes[id] = &model.Node{ID: id, Type: model.NodeFile}
	}
	state.Edges = edges
	for _, e := range entries {
		state.Entrypoints[e] = true
	}
	return state
}

// TestDynamicOnlyPropagation mirrors spec §8 scenario S6: app -> a (dynamic)
// -> b (import). Both a and b must report dynamic_only as their primary
// status, since the only path to either transits a dynamic edge.
func TestDynamicOnlyPropagation(t *testing.T) {
	edges := []*model.Edge{
		{Source: "app", Target: "a", Kind: "dynamic", Certainty: model.CertaintyStatic},
		{Source: "a", Target: "b", Kind: "import", Certainty: model.CertaintyStatic},
	}
	state := buildState(t, []string{"app", "a", "b"}, edges, []string{"app"})

	result := Classify(state, nil, nil)

	for _, id := range []string{"a", "b"} {
		ann := result.Annotations[id]
		if ann == nil {
			t.Fatalf("no annotation for %s", id)
		}
		if got := ann.PrimaryByProfile["default"]; got != StatusDynamicOnly {
			t.Errorf("%s: primary = %s, want %s", id, got, StatusDynamicOnly)
		}
	}
}

// TestDisconnectedAllProfiles checks a node unreachable from any entry in
// any profile reports disconnected_all_profiles.
func TestDisconnectedAllProfiles(t *testing.T) {
	edges := []*model.Edge{
		{Source: "app", Target: "a", Kind: "import", Certainty: model.CertaintyStatic},
	}
	state := buildState(t, []string{"app", "a", "dead"}, edges, []string{"app"})

	result := Classify(state, nil, nil)
	if got := result.Annotations["dead"].PrimaryByProfile["default"]; got != StatusDisconnectedAllProfile {
		t.Errorf("dead: primary = %s, want %s", got, StatusDisconnectedAllProfile)
	}
	if got := result.Annotations["a"].PrimaryByProfile["default"]; got != StatusReachableCurrent {
		t.Errorf("a: primary = %s, want %s", got, StatusReachableCurrent)
	}
}

// TestReachableOtherProfile checks a node reachable only under a second
// profile's edge activation reports reachable_other_profile in the first.
func TestReachableOtherProfile(t *testing.T) {
	edges := []*model.Edge{
		{Source: "app", Target: "a", Kind: "import", Certainty: model.CertaintyStatic,
			Extra: map[string]interface{}{"profiles": []interface{}{"beta"}}},
	}
	state := buildState(t, []string{"app", "a"}, edges, []string{"app"})

	profiles := []model.Profile{{Name: "default"}, {Name: "beta"}}
	result := Classify(state, profiles, nil)

	if got := result.Annotations["a"].PrimaryByProfile["default"]; got != StatusReachableOtherProfile {
		t.Errorf("a/default: primary = %s, want %s", got, StatusReachableOtherProfile)
	}
	if got := result.Annotations["a"].PrimaryByProfile["beta"]; got != StatusReachableCurrent {
		t.Errorf("a/beta: primary = %s, want %s", got, StatusReachableCurrent)
	}
}

// TestMissingEntrypointsFallsBackToFirstNode checks spec §7: no entrypoints
// falls back to the lexicographically first node rather than failing.
func TestMissingEntrypointsFallsBackToFirstNode(t *testing.T) {
	state := buildState(t, []string{"b.go", "a.go"}, nil, nil)
	result := Classify(state, nil, nil)
	if len(result.Entrypoints) != 1 || result.Entrypoints[0] != "a.go" {
		t.Fatalf("expected fallback entry a.go, got %v", result.Entrypoints)
	}
}

// TestEmptyGraphNeverFails checks classification on a zero-node graph
// produces an empty, non-nil result.
func TestEmptyGraphNeverFails(t *testing.T) {
	state := model.NewGraphState()
	result := Classify(state, nil, nil)
	if result == nil || len(result.Annotations) != 0 {
		t.Fatalf("expected empty non-nil result, got %+v", result)
	}
}
