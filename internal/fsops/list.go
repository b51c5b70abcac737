package fsops

import (
	"os"
	"sort"

	"github.com/petasbytes/uigen/internal/safety"
)

// ListDir returns the sorted, non-recursive entries of relDir. Directory
// names carry a trailing "/". An empty relDir lists the read root.
func (w *Workspace) ListDir(relDir string) ([]string, error) {
	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(w.roots.Read, relDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, statError(err, relDir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if name == safety.ArtifactsDirName || name == ".git" {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
