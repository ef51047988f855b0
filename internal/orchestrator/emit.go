package orchestrator

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/1homsi/depscope/internal/classify"
	"github.com/1homsi/depscope/internal/model"
)

type mergedNodeJSON struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	State          string `json:"state"`
	Lang           string `json:"lang"`
	SizeLOC        *int   `json:"sizeLOC,omitempty"`
	Package        string `json:"package,omitempty"`
	Module         string `json:"module,omitempty"`
	Namespace      string `json:"namespace,omitempty"`
	Crate          string `json:"crate,omitempty"`
	FQN            string `json:"fqn,omitempty"`
	Declaration    string `json:"declaration,omitempty"`
	InDeg          int    `json:"inDeg"`
	OutDeg         int    `json:"outDeg"`
	SHA256         string `json:"sha256,omitempty"`
	HasSideEffects bool   `json:"hasSideEffects,omitempty"`

	StatusByProfile   map[string][]classify.Status `json:"statusByProfile,omitempty"`
	PrimaryByProfile  map[string]classify.Status    `json:"primaryByProfile,omitempty"`
	ReachableProfiles []string                      `json:"reachableProfiles,omitempty"`
}

type mergedEdgeJSON struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Certainty string `json:"certainty"`
}

type mergedFindingJSON struct {
	RuleID   string `json:"ruleId"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Snippet  string `json:"snippet,omitempty"`
	Code     string `json:"code,omitempty"`
}

type mergedGraphJSON struct {
	Nodes            []mergedNodeJSON               `json:"nodes"`
	Edges            []mergedEdgeJSON               `json:"edges"`
	Entrypoints      []string                       `json:"entrypoints,omitempty"`
	Exports          map[string]model.ExportSummary `json:"exports,omitempty"`
	SecurityFindings map[string][]mergedFindingJSON `json:"securityFindings,omitempty"`
}

// EmitMerged writes the merged-graph JSON (spec §6 "Merged graph JSON"):
// the same per-node/per-edge shape as a crawler artifact, plus
// entrypoints and per-node classification annotations.
func EmitMerged(w io.Writer, state *model.GraphState, result *classify.Result) error {
	nodes, edges := state.Snapshot()

	var out mergedGraphJSON
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := nodes[id]
		nj := mergedNodeJSON{
			ID: n.ID, Type: string(n.Type), State: string(n.State), Lang: n.Lang,
			InDeg: n.InDeg, OutDeg: n.OutDeg, SHA256: n.SHA256, HasSideEffects: n.HasSideEffects,
		}
		if n.HasSizeLOC {
			loc := n.SizeLOC
			nj.SizeLOC = &loc
		}
		switch n.IdentityKind {
		case model.IdentityPackage:
			nj.Package = n.Identity
		case model.IdentityModule:
			nj.Module = n.Identity
		case model.IdentityNamespace:
			nj.Namespace = n.Identity
		case model.IdentityCrate:
			nj.Crate = n.Identity
		case model.IdentityFQN:
			nj.FQN = n.Identity
		case model.IdentityDeclaration:
			nj.Declaration = n.Identity
		}
		if result != nil {
			if ann, ok := result.Annotations[id]; ok {
				nj.StatusByProfile = ann.StatusByProfile
				nj.PrimaryByProfile = ann.PrimaryByProfile
				nj.ReachableProfiles = ann.ReachableProfiles
			}
		}
		out.Nodes = append(out.Nodes, nj)
	}

	for _, e := range edges {
		out.Edges = append(out.Edges, mergedEdgeJSON{Source: e.Source, Target: e.Target, Kind: e.Kind, Certainty: string(e.Certainty)})
	}

	if result != nil {
		out.Entrypoints = result.Entrypoints
	} else {
		for id := range state.Entrypoints {
			out.Entrypoints = append(out.Entrypoints, id)
		}
		sort.Strings(out.Entrypoints)
	}

	if len(state.Exports) > 0 {
		out.Exports = state.Exports
	}

	if len(state.SecurityFindings) > 0 {
		out.SecurityFindings = make(map[string][]mergedFindingJSON, len(state.SecurityFindings))
		for id, findings := range state.SecurityFindings {
			list := make([]mergedFindingJSON, 0, len(findings))
			for _, f := range findings {
				list = append(list, mergedFindingJSON{
					RuleID: f.RuleID, Severity: f.Severity, Message: f.Message,
					Line: f.Line, Snippet: f.Snippet, Code: f.Code,
				})
			}
			out.SecurityFindings[id] = list
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
