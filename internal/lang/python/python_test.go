package python

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

func TestPythonMainGuardEntryAndAbsoluteImport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app/__init__.py"), "")
	writeFile(t, filepath.Join(root, "app/main.py"), `import app.util

if __name__ == "__main__":
    app.util.run()
`)
	writeFile(t, filepath.Join(root, "app/util.py"), "def run():\n    pass\n")

	artifact, err := crawler.Run(root, Spec())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var foundEntry, foundEdge bool
	for _, id := range artifact.Entries {
		if id == "app/main.py" {
			foundEntry = true
		}
	}
	for _, e := range artifact.Edges {
		if e.Source == "app/main.py" && e.Target == "app/util.py" {
			foundEdge = true
		}
	}
	if !foundEntry {
		t.Errorf("expected app/main.py discovered via __main__ guard, got %v", artifact.Entries)
	}
	if !foundEdge {
		t.Errorf("expected internal edge to app/util.py, got %+v", artifact.Edges)
	}
}

func TestPythonRelativeImportResolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg/__init__.py"), "")
	writeFile(t, filepath.Join(root, "pkg/a.py"), "from . import b\n")
	writeFile(t, filepath.Join(root, "pkg/b.py"), "value = 1\n")

	artifact, err := crawler.Run(root, Spec())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var found bool
	for _, e := range artifact.Edges {
		if e.Source == "pkg/a.py" && e.Target == "pkg/b.py" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected relative import `from . import b` to resolve to pkg/b.py, got %+v", artifact.Edges)
	}
}

func TestPythonExternalPipFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.py"), "import requests\n")

	artifact, err := crawler.Run(root, Spec())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var found bool
	for _, e := range artifact.Edges {
		if e.Target == "pip:requests" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected external edge to pip:requests, got %+v", artifact.Edges)
	}
}
