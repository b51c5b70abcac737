// Package fsops performs file operations inside a sandboxed workspace.
// Every path is relative to the workspace roots and validated by safety.
package fsops

import (
	"github.com/petasbytes/uigen/internal/safety"
)

// Workspace is a pair of sandbox roots. Reads resolve against the read root,
// writes against the write root.
type Workspace struct {
	roots safety.Roots
}

// Open resolves the roots once. Empty roots follow safety.ResolveRoots defaults.
func Open(readRoot, writeRoot string) (*Workspace, error) {
	roots, err := safety.ResolveRoots(readRoot, writeRoot)
	if err != nil {
		return nil, err
	}
	return &Workspace{roots: roots}, nil
}

// Roots returns the resolved absolute roots.
func (w *Workspace) Roots() safety.Roots { return w.roots }
