package merge

import "github.com/1homsi/depscope/internal/model"

func mergeNodesLocked(state *model.GraphState, nodes []interface{}) {
	for _, raw := range nodes {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		id, ok := extractID(m["id"])
		if !ok {
			continue
		}
		incoming := decodeNode(id, m)
		mergeOneNodeLocked(state, incoming)
	}
}

func decodeNode(id string, m map[string]interface{}) *model.Node {
	n := &model.Node{ID: id}
	if s, ok := asString(m["type"]); ok {
		n.Type = model.NodeType(s)
	}
	if s, ok := asString(m["state"]); ok {
		n.State = model.NodeState(s)
	}
	if s, ok := asString(m["lang"]); ok {
		n.Lang = s
	}
	if v, ok := asInt(m["sizeLOC"]); ok {
		n.SizeLOC = v
		n.HasSizeLOC = true
	}
	for key, kind := range map[string]model.IdentityKind{
		"package": model.IdentityPackage, "module": model.IdentityModule,
		"namespace": model.IdentityNamespace, "crate": model.IdentityCrate,
		"fqn": model.IdentityFQN, "declaration": model.IdentityDeclaration,
	} {
		if s, ok := asString(m[key]); ok && s != "" {
			n.IdentityKind = kind
			n.Identity = s
		}
	}
	if b, ok := asBool(m["hasSideEffects"]); ok {
		n.HasSideEffects = b
	}
	if s, ok := asString(m["sha256"]); ok {
		n.SHA256 = s
	}
	if v, ok := asInt(m["inDeg"]); ok {
		n.InDeg = v
	}
	if v, ok := asInt(m["outDeg"]); ok {
		n.OutDeg = v
	}
	return n
}

// stateRank orders NodeState by the merge priority used > side_effect_only >
// unused (spec §4.6 node merge policy).
func stateRank(s model.NodeState) int {
	switch s {
	case model.StateUsed:
		return 2
	case model.StateSideEffectOnly:
		return 1
	default:
		return 0
	}
}

func mergeOneNodeLocked(state *model.GraphState, incoming *model.Node) {
	key := canonicalKey(incoming.ID)
	existing, ok := state.Nodes[key]
	if !ok {
		state.Nodes[key] = incoming
		return
	}

	if stateRank(incoming.State) > stateRank(existing.State) {
		existing.State = incoming.State
	}
	if incoming.SizeLOC > existing.SizeLOC {
		existing.SizeLOC = incoming.SizeLOC
		existing.HasSizeLOC = existing.HasSizeLOC || incoming.HasSizeLOC
	} else if incoming.HasSizeLOC && !existing.HasSizeLOC {
		existing.HasSizeLOC = true
		existing.SizeLOC = incoming.SizeLOC
	}

	if existing.Type == "" {
		existing.Type = incoming.Type
	}
	if existing.Lang == "" {
		existing.Lang = incoming.Lang
	}
	if existing.IdentityKind == model.IdentityNone && incoming.IdentityKind != model.IdentityNone {
		existing.IdentityKind = incoming.IdentityKind
		existing.Identity = incoming.Identity
	}
	if existing.SHA256 == "" {
		existing.SHA256 = incoming.SHA256
	}
	if !existing.HasSideEffects {
		existing.HasSideEffects = incoming.HasSideEffects
	}
	if existing.InDeg == 0 {
		existing.InDeg = incoming.InDeg
	}
	if existing.OutDeg == 0 {
		existing.OutDeg = incoming.OutDeg
	}
}
