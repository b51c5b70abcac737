package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/uigen/internal/safety"
)

// WriteFile writes content to relPath under the write root, creating parent
// directories as needed. Existing files are replaced.
func (w *Workspace) WriteFile(relPath, content string) error {
	absPath, err := safety.ValidateWritePath(w.roots.Write, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(absPath, []byte(content), 0o644)
}
