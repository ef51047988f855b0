package rules

import (
	"testing"

	"github.com/1homsi/depscope/internal/sanitize"
)

func TestEvaluateJSEvalSanitization(t *testing.T) {
	raw := "// eval(\"bad\")\n\"eval('str')\"\neval(userInput);\n"
	san := sanitize.Sanitize(raw, sanitize.JavaScript)

	findings := JS().Evaluate("x.js", raw, san)

	var evalFindings []int
	for _, f := range findings {
		if f.RuleID == "eval.call" {
			evalFindings = append(evalFindings, f.Line)
		}
	}
	if len(evalFindings) != 1 {
		t.Fatalf("expected exactly 1 eval.call finding, got %d: %v", len(evalFindings), evalFindings)
	}
	if evalFindings[0] != 3 {
		t.Fatalf("expected eval.call on line 3, got line %d", evalFindings[0])
	}
}

func TestEvaluateDedup(t *testing.T) {
	raw := "eval(x);\neval(y);\n"
	san := sanitize.Sanitize(raw, sanitize.JavaScript)
	findings := JS().Evaluate("x.js", raw, san)
	count := 0
	for _, f := range findings {
		if f.RuleID == "eval.call" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 distinct eval.call findings, got %d", count)
	}
}

func TestPythonCatalogLoads(t *testing.T) {
	if len(Python().Rules) == 0 {
		t.Fatal("expected python catalog to have rules")
	}
}

func TestDartCatalogLoads(t *testing.T) {
	if len(Dart().Rules) == 0 {
		t.Fatal("expected dart catalog to have rules")
	}
}
