// Package merge implements the merge engine (spec §4.6): it ingests the
// generic decoded JSON of a per-language crawler artifact into a shared
// model.GraphState, canonicalizing ids, deduplicating nodes/edges/findings,
// and unioning exports and entrypoints across crawls.
//
// Inputs are treated as loosely-shaped JSON (map[string]interface{}) rather
// than the crawler's own strict artifactJSON, because spec §4.6 requires
// tolerating alias keys ("source|from|src|u|…") and recursive id extraction
// from heterogeneous producers — continuing the same generic-map-walking
// style internal/lang/javascript uses for package.json fields.
package merge

import (
	"encoding/json"
	"fmt"

	"github.com/1homsi/depscope/internal/model"
)

// sourceAliases and targetAliases are the accepted key spellings for an
// edge's endpoints, tried in order.
var sourceAliases = []string{"source", "from", "src", "u"}
var targetAliases = []string{"target", "to", "dst", "v"}

// idAliases are the keys searched, in order, when an endpoint value is
// itself an object rather than a string (recursive node extraction).
var idAliases = []string{"id", "path", "file", "name"}

// passThroughFields is the allow-list of edge fields copied verbatim into
// Edge.Extra for the classification engine to read.
var passThroughFields = []string{
	"dynamic", "reflection", "mode", "phase", "stage", "scope", "context",
	"profiles", "profile", "when", "flags", "test", "build", "id", "weight",
	"strength", "evidence", "notes", "metadata", "tags",
}

// MergeJSON decodes raw artifact JSON and merges it into state. Malformed
// top-level JSON is the only hard failure; every node/edge/finding that
// cannot be interpreted is silently dropped (spec §7: "merge is best-effort
// — merge never throws on partial input").
func MergeJSON(state *model.GraphState, data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("merge: decode artifact: %w", err)
	}
	Merge(state, raw)
	return nil
}

// Merge ingests one decoded artifact into state. Safe to call concurrently;
// the whole-artifact merge is performed under the GraphState's lock so
// readers never observe a partially-merged snapshot.
func Merge(state *model.GraphState, raw map[string]interface{}) {
	state.Lock()
	defer state.Unlock()

	mergeNodesLocked(state, asArray(raw["nodes"]))
	mergeEdgesLocked(state, asArray(raw["edges"]))
	mergeFindingsLocked(state, raw)
	mergeExportsLocked(state, asObject(raw["exports"]))
	mergeEntrypointsLocked(state, raw)
}

func asArray(v interface{}) []interface{} {
	a, _ := v.([]interface{})
	return a
}

func asObject(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// extractID pulls a usable identifier out of a JSON value: a bare string, or
// an object searched recursively through idAliases (nested objects are
// followed to any depth).
func extractID(v interface{}) (string, bool) {
	if s, ok := asString(v); ok && s != "" {
		return s, true
	}
	if m, ok := v.(map[string]interface{}); ok {
		for _, k := range idAliases {
			if s, ok := extractID(m[k]); ok {
				return s, true
			}
		}
	}
	return "", false
}
