package crawler

import (
	"encoding/json"
	"io"

	"github.com/1homsi/depscope/internal/model"
)

// nodeJSON mirrors the field order fixed by spec §6: id, type, state, lang,
// sizeLOC?, package|module|namespace|crate|fqn|declaration?, inDeg, outDeg,
// sha256?, hasSideEffects?.
type nodeJSON struct {
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
}

func toNodeJSON(n *model.Node) nodeJSON {
	nj := nodeJSON{
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
	return nj
}

type edgeJSON struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Certainty string `json:"certainty"`
}

// jsFindingJSON is the JS-shaped finding record: {ruleId, severity, message, line, snippet}.
type jsFindingJSON struct {
	RuleID   string `json:"ruleId"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Snippet  string `json:"snippet,omitempty"`
}

// pyFindingJSON is the Python-shaped finding record: {id, message, severity, line, code}.
type pyFindingJSON struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Code     string `json:"code,omitempty"`
}

// FindingStyle selects which finding shape a language emits.
type FindingStyle int

const (
	FindingStyleJS FindingStyle = iota
	FindingStylePython
)

type artifactJSON struct {
	Nodes            []nodeJSON                     `json:"nodes"`
	Edges            []edgeJSON                     `json:"edges"`
	Libraries        []string                       `json:"libraries,omitempty"`
	Entries          []string                       `json:"entries,omitempty"`
	Exports          map[string]model.ExportSummary `json:"exports,omitempty"`
	SecurityFindings map[string]interface{}         `json:"securityFindings,omitempty"`
}

// Emit writes a's deterministic JSON artifact to w, keys ordered per §4.8,
// two-space indented.
func Emit(w io.Writer, a *Artifact, style FindingStyle) error {
	aj := artifactJSON{
		Libraries: a.Libraries,
		Entries:   a.Entries,
		Exports:   a.Exports,
	}
	for _, n := range a.Nodes {
		aj.Nodes = append(aj.Nodes, toNodeJSON(n))
	}
	for _, e := range a.Edges {
		aj.Edges = append(aj.Edges, edgeJSON{Source: e.Source, Target: e.Target, Kind: e.Kind, Certainty: string(e.Certainty)})
	}
	if len(a.SecurityFindings) > 0 {
		aj.SecurityFindings = make(map[string]interface{}, len(a.SecurityFindings))
		for id, fs := range a.SecurityFindings {
			aj.SecurityFindings[id] = toFindingJSON(fs, style)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(aj)
}

// pythonExportsVariantJSON is the second, non-canonical Python artifact
// shape (spec.md §9 design note: a second file carrying `pythonExports`
// instead of `securityFindings`). Preserved as an explicit product
// decision, not unified with the canonical artifact (see DESIGN.md).
type pythonExportsVariantJSON struct {
	Nodes         []nodeJSON                     `json:"nodes"`
	Edges         []edgeJSON                     `json:"edges"`
	Libraries     []string                       `json:"libraries,omitempty"`
	Entries       []string                       `json:"entries,omitempty"`
	PythonExports map[string]model.ExportSummary `json:"pythonExports,omitempty"`
}

// EmitPythonExportsVariant writes the second Python artifact variant:
// same nodes/edges/libraries/entries as Emit, but with exports keyed
// "pythonExports" and no securityFindings key at all.
func EmitPythonExportsVariant(w io.Writer, a *Artifact) error {
	aj := pythonExportsVariantJSON{
		Libraries:     a.Libraries,
		Entries:       a.Entries,
		PythonExports: a.Exports,
	}
	for _, n := range a.Nodes {
		aj.Nodes = append(aj.Nodes, toNodeJSON(n))
	}
	for _, e := range a.Edges {
		aj.Edges = append(aj.Edges, edgeJSON{Source: e.Source, Target: e.Target, Kind: e.Kind, Certainty: string(e.Certainty)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(aj)
}

func toFindingJSON(fs []model.Finding, style FindingStyle) interface{} {
	switch style {
	case FindingStylePython:
		out := make([]pyFindingJSON, 0, len(fs))
		for _, f := range fs {
			code := f.Code
			if code == "" {
				code = f.Snippet
			}
			out = append(out, pyFindingJSON{ID: f.RuleID, Message: f.Message, Severity: f.Severity, Line: f.Line, Code: code})
		}
		return out
	default:
		out := make([]jsFindingJSON, 0, len(fs))
		for _, f := range fs {
			out = append(out, jsFindingJSON{RuleID: f.RuleID, Severity: f.Severity, Message: f.Message, Line: f.Line, Snippet: f.Snippet})
		}
		return out
	}
}
