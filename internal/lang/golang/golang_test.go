package golang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1homsi/depscope/internal/crawler"
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

func TestGoCrawlerModulePathResolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.22\n")
	writeFile(t, filepath.Join(root, "main.go"), `package main

import (
	"fmt"
	"example.com/widget/internal/util"
)

func main() {
	fmt.Println(util.Greeting())
}
`)
	writeFile(t, filepath.Join(root, "internal/util/util.go"), `package util

func Greeting() string { return "hi" }
`)

	artifact, err := crawler.Run(root, Spec())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var sawInternalEdge, sawStdExternal bool
	for _, e := range artifact.Edges {
		if e.Source == "main.go" && e.Target == "internal/util/util.go" {
			sawInternalEdge = true
		}
		if e.Source == "main.go" && e.Target == "std:fmt" {
			sawStdExternal = true
		}
	}
	if !sawInternalEdge {
		t.Errorf("expected internal edge main.go -> internal/util/util.go, got %+v", artifact.Edges)
	}
	if !sawStdExternal {
		t.Errorf("expected external stdlib edge to std:fmt, got %+v", artifact.Edges)
	}

	var foundEntry bool
	for _, id := range artifact.Entries {
		if id == "main.go" {
			foundEntry = true
		}
	}
	if !foundEntry {
		t.Errorf("expected main.go discovered as entry, got %v", artifact.Entries)
	}
}

func TestGoCrawlerThirdPartyExternal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/widget\n\ngo 1.22\n")
	writeFile(t, filepath.Join(root, "main.go"), `package main

import "github.com/some/dep"

func main() {
	dep.Do()
}
`)

	artifact, err := crawler.Run(root, Spec())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var sawExternal bool
	for _, e := range artifact.Edges {
		if e.Target == "go:github.com/some/dep" {
			sawExternal = true
		}
	}
	if !sawExternal {
		t.Errorf("expected external edge to go:github.com/some/dep, got %+v", artifact.Edges)
	}
}
