package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/1homsi/depscope/internal/model"
)

func TestWriteFindingsSARIFShape(t *testing.T) {
	findings := map[string][]model.Finding{
		"a.js": {
			{RuleID: "eval.call", Severity: "high", Message: "eval() called", Line: 10},
			{RuleID: "secret.literal", Severity: "critical", Message: "hardcoded secret", Line: 3},
		},
	}

	var buf bytes.Buffer
	if err := WriteFindingsSARIF(&buf, findings); err != nil {
		t.Fatalf("WriteFindingsSARIF: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if decoded["version"] != "2.1.0" {
		t.Errorf("version = %v, want 2.1.0", decoded["version"])
	}

	runs := decoded["runs"].([]interface{})
	run := runs[0].(map[string]interface{})
	results := run["results"].([]interface{})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0].(map[string]interface{})
	if first["ruleId"] != "secret.literal" {
		t.Errorf("expected results sorted by line, first ruleId = %v", first["ruleId"])
	}
	if first["level"] != "error" {
		t.Errorf("critical severity should map to error level, got %v", first["level"])
	}
}

func TestWriteFindingsSARIFEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFindingsSARIF(&buf, nil); err != nil {
		t.Fatalf("WriteFindingsSARIF on empty input: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode output: %v", err)
	}
}
