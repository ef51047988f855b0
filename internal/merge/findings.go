package merge

import "github.com/1homsi/depscope/internal/model"

var findingLocationAliases = []string{"path", "file", "source", "location", "target"}

func mergeFindingsLocked(state *model.GraphState, raw map[string]interface{}) {
	// 1. the canonical per-id securityFindings map.
	for id, v := range asObject(raw["securityFindings"]) {
		addFindingsLocked(state, id, asArray(v))
	}

	// 2. per-node securityFindings / security.findings fields.
	for _, rawNode := range asArray(raw["nodes"]) {
		m, ok := rawNode.(map[string]interface{})
		if !ok {
			continue
		}
		id, ok := extractID(m["id"])
		if !ok {
			continue
		}
		if list := asArray(m["securityFindings"]); len(list) > 0 {
			addFindingsLocked(state, id, list)
		}
		if sec, ok := m["security"].(map[string]interface{}); ok {
			if list := asArray(sec["findings"]); len(list) > 0 {
				addFindingsLocked(state, id, list)
			}
		}
	}

	// 3. a global flat list whose items carry their own location field.
	for _, rawFinding := range asArray(raw["findings"]) {
		m, ok := rawFinding.(map[string]interface{})
		if !ok {
			continue
		}
		id, ok := extractAliased(m, findingLocationAliases)
		if !ok {
			continue
		}
		addFindingsLocked(state, id, []interface{}{rawFinding})
	}
}

func addFindingsLocked(state *model.GraphState, id string, list []interface{}) {
	key := canonicalKey(id)
	seen := make(map[string]bool, len(state.SecurityFindings[key]))
	for _, f := range state.SecurityFindings[key] {
		seen[f.Key()] = true
	}
	for _, raw := range list {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		f, ok := decodeFinding(id, m)
		if !ok {
			continue
		}
		k := f.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		state.SecurityFindings[key] = append(state.SecurityFindings[key], f)
	}
}

// decodeFinding accepts either the JS-shaped {ruleId, severity, message,
// line, snippet} or the Python-shaped {id, message, severity, line, code}
// finding record. A finding with no message, id/ruleId, and no severity is
// dropped as unusable (spec §7).
func decodeFinding(file string, m map[string]interface{}) (model.Finding, bool) {
	var f model.Finding
	f.File = file
	if s, ok := asString(m["ruleId"]); ok {
		f.RuleID = s
	} else if s, ok := asString(m["id"]); ok {
		f.RuleID = s
	}
	if s, ok := asString(m["message"]); ok {
		f.Message = s
	}
	if s, ok := asString(m["severity"]); ok {
		f.Severity = s
	}
	if v, ok := asInt(m["line"]); ok {
		f.Line = v
	}
	if v, ok := asInt(m["column"]); ok {
		f.Column = v
	}
	if s, ok := asString(m["snippet"]); ok {
		f.Snippet = s
	}
	if s, ok := asString(m["code"]); ok {
		f.Code = s
	}

	if f.Message == "" && f.RuleID == "" && f.Severity == "" {
		return model.Finding{}, false
	}
	return f, true
}
