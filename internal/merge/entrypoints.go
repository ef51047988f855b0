package merge

import "github.com/1homsi/depscope/internal/model"

var entrypointAliases = []string{"entrypoints", "entryPoints", "entry_points", "entries", "entrances"}

// mergeEntrypointsLocked accepts any of the alias keys, whose value may be a
// string, an array of strings/objects, an {id|path} object, or a
// {list: […]} wrapper (spec §4.6 Entrypoints merge).
func mergeEntrypointsLocked(state *model.GraphState, raw map[string]interface{}) {
	for _, alias := range entrypointAliases {
		v, present := raw[alias]
		if !present {
			continue
		}
		collectEntrypoints(state, v)
	}
}

func collectEntrypoints(state *model.GraphState, v interface{}) {
	switch val := v.(type) {
	case string:
		if val != "" {
			state.Entrypoints[canonicalKey(val)] = true
		}
	case []interface{}:
		for _, item := range val {
			collectEntrypoints(state, item)
		}
	case map[string]interface{}:
		if list, ok := val["list"]; ok {
			collectEntrypoints(state, list)
			return
		}
		if id, ok := extractID(val); ok {
			state.Entrypoints[canonicalKey(id)] = true
		}
	}
}
