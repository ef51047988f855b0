package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/1homsi/depscope/internal/logging"
)

// InvokeCrawler spawns execPath with root as its working directory. The
// crawler takes no flags and writes its artifact to root (spec §6). A
// non-zero exit code only logs a warning: any artifact produced is still
// consumed (spec §6, §7).
func InvokeCrawler(ctx context.Context, lang, execPath, root string) error {
	cmd := exec.CommandContext(ctx, execPath)
	cmd.Dir = root
	cmd.Stdout = logging.Logger.Writer()
	cmd.Stderr = logging.Logger.Writer()

	err := cmd.Run()
	if err != nil {
		logging.Warnf("[%s] crawler exited with error: %v", lang, err)
	}

	artifact := filepath.Join(root, artifactFilename[lang])
	if _, statErr := os.Stat(artifact); statErr != nil {
		return fmt.Errorf("invoke crawler %q: no artifact produced at %s", lang, artifact)
	}
	return nil
}

// ReadArtifact reads the fixed artifact file for lang under root.
func ReadArtifact(lang, root string) ([]byte, error) {
	path := filepath.Join(root, artifactFilename[lang])
	return os.ReadFile(path)
}
