// Package report adapts the merged, classified graph's security findings
// into SARIF 2.1.0 (spec.md §9 design note / SPEC_FULL.md §5 "Supplemented
// Features"), the CI-consumable shape of the teacher's own scan SARIF
// writer, generalized from a ScanReport of capability/health findings to
// this module's Finding model.
package report

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/1homsi/depscope/internal/model"
)

type sarifOutput struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

var severityToLevel = map[model.Severity]string{
	model.SeverityInfo:     "note",
	model.SeverityLow:      "note",
	model.SeverityMed:      "warning",
	model.SeverityHigh:     "error",
	model.SeverityCritical: "error",
	model.SeverityUnknown:  "warning",
}

// WriteFindingsSARIF writes every security finding attached to nodes (keyed
// by node id) as a SARIF 2.1.0 log, one result per finding, sorted by
// (node id, line, ruleId) for determinism.
func WriteFindingsSARIF(w io.Writer, findingsByNode map[string][]model.Finding) error {
	ruleSeen := make(map[string]bool)
	var rules []sarifRule
	var results []sarifResult

	ids := make([]string, 0, len(findingsByNode))
	for id := range findingsByNode {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		findings := append([]model.Finding(nil), findingsByNode[id]...)
		sort.Slice(findings, func(i, j int) bool {
			if findings[i].Line != findings[j].Line {
				return findings[i].Line < findings[j].Line
			}
			return findings[i].RuleID < findings[j].RuleID
		})

		for _, f := range findings {
			if !ruleSeen[f.RuleID] {
				ruleSeen[f.RuleID] = true
				rules = append(rules, sarifRule{ID: f.RuleID, ShortDescription: sarifMessage{Text: f.Message}})
			}
			results = append(results, sarifResult{
				RuleID:  f.RuleID,
				Level:   severityToLevel[model.NormalizeSeverity(f.Severity)],
				Message: sarifMessage{Text: f.Message},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: id},
						Region:           sarifRegion{StartLine: f.Line},
					},
				}},
			})
		}
	}

	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

	out := sarifOutput{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "depscope",
						Version:        "0.1.0",
						InformationURI: "https://github.com/1homsi/depscope",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
