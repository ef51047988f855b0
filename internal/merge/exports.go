package merge

import "github.com/1homsi/depscope/internal/model"

// mergeExportsLocked unions, per canonical id and category, the opaque
// export entry lists (spec §4.6: "Values inside categories are not merged
// structurally; later occurrences append").
func mergeExportsLocked(state *model.GraphState, exports map[string]interface{}) {
	for id, v := range exports {
		categories, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		key := canonicalKey(id)
		dst, ok := state.Exports[key]
		if !ok {
			dst = model.ExportSummary{}
			state.Exports[key] = dst
		}
		for category, rawList := range categories {
			for _, item := range asArray(rawList) {
				if s, ok := asString(item); ok {
					dst[category] = append(dst[category], s)
				}
			}
		}
	}
}
