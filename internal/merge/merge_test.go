package merge

import (
	"testing"

	"github.com/1homsi/depscope/internal/model"
)

// TestCanonicalizationDedup mirrors spec §8 scenario S5: two artifacts
// reference the same file under different path spellings, each carrying a
// distinct finding. After merging both, there must be exactly one node and
// exactly two findings under the canonical key.
func TestCanonicalizationDedup(t *testing.T) {
	state := model.NewGraphState()

	a1 := map[string]interface{}{
		"nodes": []interface{}{
			map[string]interface{}{"id": "C:/repo/src/a.js", "type": "file", "state": "used", "lang": "javascript"},
		},
		"securityFindings": map[string]interface{}{
			"C:/repo/src/a.js": []interface{}{
				map[string]interface{}{"ruleId": "eval.call", "severity": "critical", "message": "m1", "line": 3},
			},
		},
	}
	a2 := map[string]interface{}{
		"nodes": []interface{}{
			map[string]interface{}{"id": `C:\repo\src\a.js`, "type": "file", "state": "unused", "lang": "javascript"},
		},
		"securityFindings": map[string]interface{}{
			`C:\repo\src\a.js`: []interface{}{
				map[string]interface{}{"ruleId": "secret.literal", "severity": "high", "message": "m2", "line": 10},
			},
		},
	}

	Merge(state, a1)
	Merge(state, a2)

	if len(state.Nodes) != 1 {
		t.Fatalf("expected 1 merged node, got %d", len(state.Nodes))
	}
	canonical := "C:/repo/src/a.js"
	if _, ok := state.Nodes[canonical]; !ok {
		t.Fatalf("expected node under canonical key %q, got keys %v", canonical, keysOf(state.Nodes))
	}
	findings := state.SecurityFindings[canonical]
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings under canonical key, got %d: %+v", len(findings), findings)
	}
}

func keysOf(m map[string]*model.Node) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// TestEdgeAliasNormalization checks that edges referencing endpoints by any
// accepted alias, including a nested object endpoint, merge into the same
// (source,target,kind) key.
func TestEdgeAliasNormalization(t *testing.T) {
	state := model.NewGraphState()

	raw := map[string]interface{}{
		"nodes": []interface{}{
			map[string]interface{}{"id": "a.js", "type": "file", "state": "used"},
			map[string]interface{}{"id": "b.js", "type": "file", "state": "used"},
		},
		"edges": []interface{}{
			map[string]interface{}{"source": "a.js", "target": "b.js", "kind": "import"},
			map[string]interface{}{"from": "a.js", "to": map[string]interface{}{"id": "b.js"}, "kind": "import"},
		},
	}
	Merge(state, raw)

	if len(state.Edges) != 1 {
		t.Fatalf("expected 1 deduped edge, got %d: %+v", len(state.Edges), state.Edges)
	}
}

// TestSelfMergeIdempotent mirrors the round-trip law: merging a graph with
// itself yields identical node/edge sets (modulo canonicalization).
func TestSelfMergeIdempotent(t *testing.T) {
	state := model.NewGraphState()
	raw := map[string]interface{}{
		"nodes": []interface{}{
			map[string]interface{}{"id": "a.js", "type": "file", "state": "used", "sizeLOC": float64(10)},
		},
		"edges": []interface{}{
			map[string]interface{}{"source": "a.js", "target": "pip:requests", "kind": "import"},
		},
	}
	Merge(state, raw)
	nodesBefore, edgesBefore := len(state.Nodes), len(state.Edges)
	Merge(state, raw)
	if len(state.Nodes) != nodesBefore || len(state.Edges) != edgesBefore {
		t.Fatalf("merge not idempotent: nodes %d->%d edges %d->%d", nodesBefore, len(state.Nodes), edgesBefore, len(state.Edges))
	}
}

// TestDroppedMalformedInput checks that malformed nodes/edges/findings are
// silently dropped rather than causing an error (spec §7).
func TestDroppedMalformedInput(t *testing.T) {
	state := model.NewGraphState()
	raw := map[string]interface{}{
		"nodes": []interface{}{
			map[string]interface{}{"type": "file"}, // no id
			"not-an-object",
		},
		"edges": []interface{}{
			map[string]interface{}{"target": "b.js", "kind": "import"}, // no source
			map[string]interface{}{"source": "a.js", "kind": "import"}, // no target
		},
		"securityFindings": map[string]interface{}{
			"a.js": []interface{}{
				map[string]interface{}{}, // no message/id/severity
			},
		},
	}
	Merge(state, raw)
	if len(state.Nodes) != 0 {
		t.Fatalf("expected malformed nodes dropped, got %d", len(state.Nodes))
	}
	if len(state.Edges) != 0 {
		t.Fatalf("expected malformed edges dropped, got %d", len(state.Edges))
	}
	if len(state.SecurityFindings["a.js"]) != 0 {
		t.Fatalf("expected malformed finding dropped, got %+v", state.SecurityFindings["a.js"])
	}
}
