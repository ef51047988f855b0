// Package rules loads the closed per-language security rule catalogs
// (embedded YAML data tables) and evaluates them against a file's raw and
// sanitized text, continuing the teacher's own
// internal/capability/patternset.go pattern of embedding *.yaml files and
// validating them at load time (design note §9: rules are "a closed data
// table so they can be unit-tested individually").
package rules

import (
	"embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

// Kind selects which text view a rule is evaluated against.
type Kind string

const (
	KindSanitized Kind = "sanitized"
	KindRaw       Kind = "raw"
	KindHeuristic Kind = "heuristic"
)

// Rule is one entry of a closed, per-language catalog.
type Rule struct {
	ID              string `yaml:"id"`
	Severity        string `yaml:"severity"`
	Message         string `yaml:"message"`
	Kind            Kind   `yaml:"kind"`
	Pattern         string `yaml:"pattern"`
	Context         string `yaml:"context,omitempty"`
	NegativeContext bool   `yaml:"negativeContext,omitempty"`
	ContextLines    int    `yaml:"contextLines,omitempty"`

	re        *regexp.Regexp
	contextRe *regexp.Regexp
}

// Catalog is an ordered, compiled rule set. Declaration order is preserved
// from the YAML source and is the primary ordering of findings; match offset
// orders findings of the same rule.
type Catalog struct {
	Rules []Rule
}

var (
	jsCatalog     *Catalog
	pythonCatalog *Catalog
	dartCatalog   *Catalog
)

func init() {
	var err error
	jsCatalog, err = load("js.yaml")
	if err != nil {
		panic(fmt.Sprintf("depscope: %v", err))
	}
	pythonCatalog, err = load("python.yaml")
	if err != nil {
		panic(fmt.Sprintf("depscope: %v", err))
	}
	dartCatalog, err = load("dart.yaml")
	if err != nil {
		panic(fmt.Sprintf("depscope: %v", err))
	}
}

// JS returns the closed JS/TS rule catalog.
func JS() *Catalog { return jsCatalog }

// Python returns the closed Python rule catalog.
func Python() *Catalog { return pythonCatalog }

// Dart returns the closed self-hosted-language rule catalog.
func Dart() *Catalog { return dartCatalog }

func load(name string) (*Catalog, error) {
	data, err := catalogFS.ReadFile("catalog/" + name)
	if err != nil {
		return nil, fmt.Errorf("load rule catalog %q: %w", name, err)
	}
	var rs []Rule
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse rule catalog %q: %w", name, err)
	}
	for i := range rs {
		r := &rs[i]
		if r.ID == "" || r.Pattern == "" {
			return nil, fmt.Errorf("rule catalog %q: entry %d missing id or pattern", name, i)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid pattern: %w", r.ID, err)
		}
		r.re = re
		if r.Context != "" {
			cre, err := regexp.Compile(r.Context)
			if err != nil {
				return nil, fmt.Errorf("rule %q: invalid context pattern: %w", r.ID, err)
			}
			r.contextRe = cre
		}
	}
	return &Catalog{Rules: rs}, nil
}
