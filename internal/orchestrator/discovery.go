package orchestrator

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// crawlerBinaryName maps a language code to the fixed crawler executable
// name the orchestrator looks for. Names follow the `depscope-crawl-<lang>`
// convention; spec.md leaves the literal executable name unspecified, so
// this is this implementation's own decision (see DESIGN.md).
var crawlerBinaryName = map[string]string{
	"javascript": "depscope-crawl-javascript",
	"python":     "depscope-crawl-python",
	"go":         "depscope-crawl-go",
	"rust":       "depscope-crawl-rust",
	"java":       "depscope-crawl-java",
	"kotlin":     "depscope-crawl-kotlin",
	"csharp":     "depscope-crawl-csharp",
	"dart":       "depscope-crawl-dart",
}

// artifactFilename is the fixed per-language artifact name written to the
// crawl root (spec §6).
var artifactFilename = map[string]string{
	"javascript": "jsDependencies.json",
	"python":     "pyDependencies.json",
	"go":         "goDependencies.json",
	"rust":       "rustDependencies.json",
	"java":       "javaDependencies.json",
	"kotlin":     "kotlinDependencies.json",
	"csharp":     "csharpDependencies.json",
	"dart":       "dartDependencies.json",
}

// DiscoverCrawler resolves the executable for lang, searching, in order:
// the current directory, the directory the controller binary lives in, and
// the host PATH (spec §6 "A crawler discovery interface").
func DiscoverCrawler(lang string) (string, error) {
	name, ok := crawlerBinaryName[lang]
	if !ok {
		return "", fmt.Errorf("discover crawler: unknown language %q", lang)
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("discover crawler: no executable found for %q (tried cwd, controller-sibling, PATH)", lang)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}
