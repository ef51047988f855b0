package javascript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1homsi/depscope/internal/crawler"
	"github.com/1homsi/depscope/internal/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestJSRelativeExtensionProbeOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/index.ts"), `import { helper } from './util';
helper();
`)
	writeFile(t, filepath.Join(root, "src/util.ts"), `export function helper() {}`)
	writeFile(t, filepath.Join(root, "src/util.js"), `module.exports = { helper() {} };`)

	artifact, err := crawler.Run(root, Spec())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var resolved string
	for _, e := range artifact.Edges {
		if e.Source == "src/index.ts" {
			resolved = e.Target
		}
	}
	if resolved != "src/util.ts" {
		t.Errorf("expected ./util to resolve to src/util.ts (probe order prefers .ts over .js), got %q", resolved)
	}
}

func TestJSSideEffectOnlyState(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.js"), `import './polyfill';
`)
	writeFile(t, filepath.Join(root, "polyfill.js"), `console.log("side effect");
`)

	artifact, err := crawler.Run(root, Spec())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var polyfillState model.NodeState
	for _, n := range artifact.Nodes {
		if n.ID == "polyfill.js" {
			polyfillState = n.State
		}
	}
	if polyfillState != model.StateSideEffectOnly {
		t.Errorf("polyfill.js state = %q, want side_effect_only", polyfillState)
	}
}

func TestJSExternalPackageNameExtraction(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.js"), `import React from 'react';
import { foo } from '@scope/pkg/sub';
`)

	artifact, err := crawler.Run(root, Spec())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	targets := map[string]bool{}
	for _, e := range artifact.Edges {
		targets[e.Target] = true
	}
	if !targets["react"] {
		t.Errorf("expected external edge to 'react', got %+v", targets)
	}
	if !targets["@scope/pkg"] {
		t.Errorf("expected scoped package collapsed to '@scope/pkg', got %+v", targets)
	}
}
