// Package model defines the shared data types passed between a crawler's
// extractor, resolver, graph builder, and emitter, and consumed by the
// merge and classification engines.
package model

import "strconv"

// NodeType distinguishes a source file from an external dependency.
type NodeType string

const (
	NodeFile     NodeType = "file"
	NodeExternal NodeType = "external"
)

// NodeState is the reachability-derived liveness of a node.
type NodeState string

const (
	StateUsed           NodeState = "used"
	StateUnused         NodeState = "unused"
	StateSideEffectOnly NodeState = "side_effect_only"
)

// Certainty tags how confident a resolved reference is.
type Certainty string

const (
	CertaintyStatic    Certainty = "static"
	CertaintyHeuristic Certainty = "heuristic"
)

// Language tags, matching the closed `lang` vocabulary.
const (
	LangJavaScript = "javascript"
	LangPython     = "python"
	LangGo         = "go"
	LangRust       = "rust"
	LangJava       = "java"
	LangKotlin     = "kotlin"
	LangCSharp     = "csharp"
	LangDart       = "dart"
	LangExternal   = "external"
)

// IdentityKind names which language-specific identity field a node carries.
type IdentityKind string

const (
	IdentityNone        IdentityKind = ""
	IdentityPackage     IdentityKind = "package"
	IdentityModule      IdentityKind = "module"
	IdentityNamespace   IdentityKind = "namespace"
	IdentityCrate       IdentityKind = "crate"
	IdentityFQN         IdentityKind = "fqn"
	IdentityDeclaration IdentityKind = "declaration"
)

// Node represents either a source file or an external dependency.
type Node struct {
	ID             string
	Type           NodeType
	State          NodeState
	Lang           string
	SizeLOC        int
	HasSizeLOC     bool
	IdentityKind   IdentityKind
	Identity       string
	HasSideEffects bool
	SHA256         string
	InDeg          int
	OutDeg         int
}

// Edge is a directed reference source -> target.
type Edge struct {
	Source    string
	Target    string
	Kind      string
	Certainty Certainty

	// Extra carries merge-engine pass-through fields (dynamic, reflection, phase,
	// profiles, when, flags, test, build, ...), opaque to the graph builder
	// and emitter but consumed by the classification engine.
	Extra map[string]interface{}
}

// Key returns the (source, target, kind) uniqueness key for an edge.
func (e *Edge) Key() string {
	return e.Source + "\x00" + e.Target + "\x00" + e.Kind
}

// ImportRef is a single import/use/mod reference extracted from a file,
// in source order.
type ImportRef struct {
	Raw  string // the specifier/path as written
	Kind string // edge kind this reference will produce, e.g. "import", "use", "from_relative"
	Line int
}

// FileFacts is the transient per-file result of lexical extraction.
type FileFacts struct {
	AbsPath         string
	RelID           string // repository-relative, forward-slash path
	PackageOrModule string
	DeclaredNames   []string
	Imports         []ImportRef
	EntryMarker     bool
	LOC             int
	SHA256          string
	Findings        []Finding
	Exports         ExportSummary
	HasSideEffects  bool // true if the file has any import, re-export, require or dynamic import (JS); other top-level statements are not inspected
}

// Severity is the closed security-finding severity taxonomy.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMed      Severity = "med"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
	SeverityUnknown  Severity = "unknown"
)

// NormalizeSeverity maps synonyms to the canonical severity vocabulary.
// Idempotent: NormalizeSeverity(NormalizeSeverity(x)) == NormalizeSeverity(x).
func NormalizeSeverity(s string) Severity {
	switch s {
	case "info", "low", "med", "high", "critical":
		return Severity(s)
	case "warn", "warning":
		return SeverityMed
	case "severe":
		return SeverityHigh
	case "crit":
		return SeverityCritical
	default:
		return SeverityUnknown
	}
}

// Finding is a single security rule match.
type Finding struct {
	RuleID   string
	Severity string
	Message  string
	File     string
	Line     int
	Column   int
	Snippet  string
	Code     string
}

// Key identifies a finding for merge-time deduplication:
// (severityNormalized, ruleId, line, message, code).
func (f Finding) Key() string {
	return string(NormalizeSeverity(f.Severity)) + "\x00" + f.RuleID + "\x00" +
		strconv.Itoa(f.Line) + "\x00" + f.Message + "\x00" + f.Code
}

// ExportSummary maps an export category to a list of opaque, language-native
// entries. Categories and contents are language-specific and opaque to the
// merge engine.
type ExportSummary map[string][]string

// Profile is a named classification configuration.
type Profile struct {
	Name  string
	Flags map[string]interface{}
}
