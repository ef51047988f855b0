package merge

import "github.com/1homsi/depscope/internal/model"

func mergeEdgesLocked(state *model.GraphState, edges []interface{}) {
	for _, raw := range edges {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := extractAliased(m, sourceAliases)
		if !ok {
			continue
		}
		target, ok := extractAliased(m, targetAliases)
		if !ok {
			continue
		}
		kind, _ := asString(m["kind"])

		key := canonicalKey(source) + "\x00" + canonicalKey(target) + "\x00" + kind
		if state.HasEdgeKeyLocked(key) {
			continue
		}
		state.MarkEdgeKey(key)

		e := &model.Edge{Source: displayID(state, source), Target: displayID(state, target), Kind: kind}
		if c, ok := asString(m["certainty"]); ok {
			e.Certainty = model.Certainty(c)
		} else {
			e.Certainty = model.CertaintyStatic
		}
		e.Extra = extractPassThrough(m)
		state.Edges = append(state.Edges, e)
	}
}

// displayID normalizes an edge endpoint to the first-seen display id already
// recorded for its canonical key, so an edge never targets a syntactic path
// variant (e.g. backslashes) that matches no emitted node id (invariant 1).
// Endpoints with no corresponding node yet (order-independent producers,
// externals synthesized later) fall back to the raw value.
func displayID(state *model.GraphState, id string) string {
	if n, ok := state.Nodes[canonicalKey(id)]; ok {
		return n.ID
	}
	return id
}

// extractAliased tries each alias key in order, extracting an id from
// either a bare string or a nested object (recursive node extraction).
func extractAliased(m map[string]interface{}, aliases []string) (string, bool) {
	for _, key := range aliases {
		if v, present := m[key]; present {
			if id, ok := extractID(v); ok {
				return id, true
			}
		}
	}
	return "", false
}

func extractPassThrough(m map[string]interface{}) map[string]interface{} {
	var out map[string]interface{}
	for _, field := range passThroughFields {
		if v, ok := m[field]; ok {
			if out == nil {
				out = make(map[string]interface{}, len(passThroughFields))
			}
			out[field] = v
		}
	}
	return out
}
