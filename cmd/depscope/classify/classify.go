// Package classify implements the `depscope classify` subcommand: read a
// merged graph JSON, run the classification engine against a profile/
// keep-rule configuration, and print the annotated graph (spec §4.7, §6).
// A `--fail-on` flag gates the process exit code on reachable findings
// (spec.md §9 design note, recovered into this implementation's
// policy-gated scan summary; see SPEC_FULL.md §5).
package classify

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/1homsi/depscope/internal/classify"
	"github.com/1homsi/depscope/internal/merge"
	"github.com/1homsi/depscope/internal/model"
	"github.com/1homsi/depscope/internal/orchestrator"
	"github.com/1homsi/depscope/internal/report"
)

var severityRank = map[string]int{
	"info": 0, "low": 1, "med": 2, "high": 3, "critical": 4, "unknown": 0,
}

func Run(args []string) int {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	profilesPath := fs.String("profiles", "", "YAML profile/keep-rule config file")
	failOn := fs.String("fail-on", "", "fail (exit 1) if any reachable node has a finding at or above this severity: low|med|high|critical")
	sarifOut := fs.Bool("sarif", false, "emit security findings as SARIF 2.1.0 instead of the annotated graph")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "classify: expected exactly one merged graph JSON file")
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "classify: read merged graph:", err)
		return 2
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		fmt.Fprintln(os.Stderr, "classify: decode merged graph:", err)
		return 2
	}

	state := model.NewGraphState()
	merge.Merge(state, raw)

	profiles, keepRaw, err := orchestrator.LoadProfileConfig(*profilesPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "classify:", err)
		return 2
	}
	keepRules := classify.CompileKeepRules(keepRaw)

	result := classify.Classify(state, profiles, keepRules)

	var writeErr error
	if *sarifOut {
		writeErr = report.WriteFindingsSARIF(os.Stdout, state.SecurityFindings)
	} else {
		writeErr = orchestrator.EmitMerged(os.Stdout, state, result)
	}
	if writeErr != nil {
		fmt.Fprintln(os.Stderr, "classify: write output:", writeErr)
		return 2
	}

	if *failOn != "" {
		if violatesPolicy(state, result, *failOn) {
			return 1
		}
	}
	return 0
}

func violatesPolicy(state *model.GraphState, result *classify.Result, failOn string) bool {
	threshold, ok := severityRank[failOn]
	if !ok {
		return false
	}
	for id, findings := range state.SecurityFindings {
		ann := result.Annotations[id]
		if ann == nil {
			continue
		}
		reachable := false
		for _, status := range ann.PrimaryByProfile {
			if status == classify.StatusReachableCurrent {
				reachable = true
				break
			}
		}
		if !reachable {
			continue
		}
		for _, f := range findings {
			if severityRank[string(model.NormalizeSeverity(f.Severity))] >= threshold {
				return true
			}
		}
	}
	return false
}
