// Package classify implements the classification engine (spec §4.7):
// per-profile reachability over a merged graph's filtered adjacency, and a
// closed-set status assignment per node per profile.
package classify

import (
	"strconv"
	"strings"

	"github.com/1homsi/depscope/internal/model"
)

func extraBool(e *model.Edge, key string) bool {
	if e.Extra == nil {
		return false
	}
	v, ok := e.Extra[key]
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	}
	return false
}

func extraString(e *model.Edge, key string) string {
	if e.Extra == nil {
		return ""
	}
	s, _ := e.Extra[key].(string)
	return s
}

// isDeferredEdge reports whether an edge is only active under lazy/deferred
// loading semantics.
func isDeferredEdge(e *model.Edge) bool {
	if extraBool(e, "deferred") || extraBool(e, "lazy") {
		return true
	}
	if strings.EqualFold(extraString(e, "loading"), "deferred") {
		return true
	}
	k := strings.ToLower(e.Kind)
	return strings.Contains(k, "defer") || strings.Contains(k, "lazy")
}

// isDynamicEdge reports whether an edge is resolved only at runtime
// (reflection, dynamic require/import, heuristic certainty).
func isDynamicEdge(e *model.Edge) bool {
	if extraBool(e, "dynamic") || extraBool(e, "reflection") {
		return true
	}
	if e.Certainty == model.CertaintyHeuristic {
		return true
	}
	if strings.EqualFold(extraString(e, "mode"), "runtime_dynamic") {
		return true
	}
	k := strings.ToLower(e.Kind)
	return strings.Contains(k, "dynamic") || strings.Contains(k, "require.ensure") || strings.Contains(k, "eval")
}

// Phase is the runtime/test/build classification of an edge.
type Phase string

const (
	PhaseRuntime Phase = "runtime"
	PhaseTest    Phase = "test"
	PhaseBuild   Phase = "build"
)

// edgePhase derives an edge's phase from phase|stage|scope|context fields or
// its kind; test markers win over build, default is runtime.
func edgePhase(e *model.Edge) Phase {
	fields := []string{extraString(e, "phase"), extraString(e, "stage"), extraString(e, "scope"), extraString(e, "context")}
	hasBuild := extraBool(e, "build")
	hasTest := extraBool(e, "test")
	for _, f := range fields {
		lf := strings.ToLower(f)
		if strings.Contains(lf, "test") {
			hasTest = true
		}
		if strings.Contains(lf, "build") {
			hasBuild = true
		}
	}
	lk := strings.ToLower(e.Kind)
	if strings.Contains(lk, "test") {
		hasTest = true
	}
	if strings.Contains(lk, "build") {
		hasBuild = true
	}
	if hasTest {
		return PhaseTest
	}
	if hasBuild {
		return PhaseBuild
	}
	return PhaseRuntime
}

// isEdgeActiveInProfile reports whether an edge participates in reachability
// for the given profile: it is active unless it names profiles/flags that
// disagree with the supplied profile.
func isEdgeActiveInProfile(e *model.Edge, p model.Profile) bool {
	if e.Extra == nil {
		return true
	}

	if list := asStringList(e.Extra["profiles"]); len(list) > 0 && !containsFold(list, p.Name) {
		return false
	}
	if s := extraString(e, "profile"); s != "" && !strings.EqualFold(s, p.Name) {
		return false
	}
	if when := extraString(e, "when"); when != "" {
		parts := strings.Split(when, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if !containsFold(parts, p.Name) {
			return false
		}
	}
	if flags, ok := e.Extra["flags"].(map[string]interface{}); ok {
		for k, v := range flags {
			if pv, present := p.Flags[k]; present {
				if !valuesEqual(v, pv) {
					return false
				}
			}
		}
	}
	return true
}

func asStringList(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	case string:
		return []string{t}
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b interface{}) bool {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.EqualFold(as, bs)
	}
	return a == b
}
