package orchestrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1homsi/depscope/internal/model"
)

func TestDiscoverCrawlerUnknownLanguage(t *testing.T) {
	if _, err := DiscoverCrawler("cobol"); err == nil {
		t.Fatal("expected error for unknown language")
	}
}

func TestDiscoverCrawlerFindsCWDExecutable(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, crawlerBinaryName["go"])
	writeScript(t, script, "#!/bin/sh\nexit 0\n")

	restore := chdir(t, dir)
	defer restore()

	got, err := DiscoverCrawler("go")
	if err != nil {
		t.Fatalf("DiscoverCrawler: %v", err)
	}
	if filepath.Base(got) != crawlerBinaryName["go"] {
		t.Errorf("got %s, want basename %s", got, crawlerBinaryName["go"])
	}
}

func TestInvokeCrawlerConsumesArtifactOnNonZeroExit(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "crawler.sh")
	artifact := artifactFilename["python"]
	writeScript(t, script, "#!/bin/sh\necho '{\"nodes\":[]}' > "+artifact+"\nexit 1\n")

	err := InvokeCrawler(context.Background(), "python", script, root)
	if err != nil {
		t.Fatalf("InvokeCrawler: %v", err)
	}

	data, err := ReadArtifact("python", root)
	if err != nil {
		t.Fatalf("ReadArtifact: %v", err)
	}
	if !strings.Contains(string(data), "nodes") {
		t.Errorf("unexpected artifact content: %s", data)
	}
}

func TestInvokeCrawlerMissingArtifactErrors(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, "crawler.sh")
	writeScript(t, script, "#!/bin/sh\nexit 0\n")

	if err := InvokeCrawler(context.Background(), "go", script, root); err == nil {
		t.Fatal("expected error when no artifact is produced")
	}
}

func TestRunCrawlMergesEachDiscoveredLanguage(t *testing.T) {
	root := t.TempDir()
	script := filepath.Join(root, crawlerBinaryName["go"])
	writeScript(t, script, "#!/bin/sh\ncat > "+artifactFilename["go"]+` <<'EOF'
{"nodes":[{"id":"main.go","type":"file","state":"used","lang":"go","inDeg":0,"outDeg":0}],"edges":[],"entries":["main.go"]}
EOF
exit 0
`)

	restore := chdir(t, root)
	defer restore()

	orch := New(root)
	if err := orch.RunCrawl(context.Background(), []string{"go"}); err != nil {
		t.Fatalf("RunCrawl: %v", err)
	}

	nodes, _ := orch.State.Snapshot()
	if _, ok := nodes["main.go"]; !ok {
		t.Errorf("expected merged node main.go, got %+v", nodes)
	}
}

func TestRunCrawlSkipsUndiscoverableLanguage(t *testing.T) {
	root := t.TempDir()
	restore := chdir(t, root)
	defer restore()

	orch := New(root)
	if err := orch.RunCrawl(context.Background(), []string{"rust"}); err != nil {
		t.Fatalf("RunCrawl should never fail outright: %v", err)
	}
	nodes, _ := orch.State.Snapshot()
	if len(nodes) != 0 {
		t.Errorf("expected no nodes merged, got %+v", nodes)
	}
}

func TestServerGraphEndpoint(t *testing.T) {
	state := model.NewGraphState()
	state.Nodes["a.go"] = &model.Node{ID: "a.go", Type: model.NodeFile, State: model.StateUsed}
	state.Entrypoints["a.go"] = true

	orch := &Orchestrator{Root: t.TempDir(), State: state}
	srv := NewServer(orch, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "a.go") {
		t.Errorf("response missing node: %s", rec.Body.String())
	}
}

func TestServerResetEndpoint(t *testing.T) {
	state := model.NewGraphState()
	state.Nodes["a.go"] = &model.Node{ID: "a.go", Type: model.NodeFile}
	orch := &Orchestrator{Root: t.TempDir(), State: state}
	srv := NewServer(orch, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/reset", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	nodes, _ := orch.State.Snapshot()
	if len(nodes) != 0 {
		t.Errorf("expected reset graph, got %+v", nodes)
	}
}

func TestServerRejectsWrongMethod(t *testing.T) {
	orch := New(t.TempDir())
	srv := NewServer(orch, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/graph", nil)
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	return func() { os.Chdir(old) }
}
