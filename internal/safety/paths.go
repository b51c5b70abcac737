// Package safety confines workspace file access to sandbox roots.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Error codes surfaced to the model inside tool results.
const (
	CodeOutsideSandbox = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeDeniedRead     = "ERR_DENIED_READ"
	CodeDeniedWrite    = "ERR_DENIED_WRITE"
	CodeNotAFile       = "ERR_NOT_A_FILE"
	CodeNotFound       = "ERR_NOT_FOUND"
	CodeInvalidInput   = "ERR_INVALID_INPUT"
)

// ArtifactsDirName is the default telemetry directory, resolved inside the
// write root. It is never readable or writable through the tools.
const ArtifactsDirName = ".uigen"

// ToolError is a machine-readable error body for surfacing back to the model as JSON.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string to keep tool results small.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Roots are the absolute, symlink-resolved sandbox roots.
type Roots struct {
	Read  string
	Write string
}

// ResolveRoots makes readRoot and writeRoot absolute. An empty readRoot means
// the working directory; an empty writeRoot means readRoot.
func ResolveRoots(readRoot, writeRoot string) (Roots, error) {
	if readRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Roots{}, fmt.Errorf("getwd: %w", err)
		}
		readRoot = cwd
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}

	var err error
	if readRoot, err = absResolved(readRoot); err != nil {
		return Roots{}, fmt.Errorf("read root: %w", err)
	}
	if writeRoot, err = absResolved(writeRoot); err != nil {
		return Roots{}, fmt.Errorf("write root: %w", err)
	}
	return Roots{Read: readRoot, Write: writeRoot}, nil
}

// absResolved returns the absolute form of p with symlinks resolved when p exists.
func absResolved(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		return r, nil
	}
	return abs, nil
}

// resolveInside joins relPath to absRoot and checks that the result, after
// best-effort symlink resolution of the leaf or its parent, stays inside
// absRoot. It returns the candidate path and its slash-separated form
// relative to the root.
func resolveInside(absRoot, relPath string) (string, string, error) {
	if filepath.IsAbs(relPath) {
		return "", "", ToolError{Code: CodeOutsideSandbox, Message: "absolute paths are not allowed"}
	}

	candidate := filepath.Join(absRoot, filepath.Clean(relPath))
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(candidate)); err == nil {
		// Leaf may not exist yet; a symlinked parent can still escape.
		candidate = filepath.Join(parent, filepath.Base(candidate))
	}

	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", "", ToolError{Code: CodeOutsideSandbox, Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(rel), nil
}

// underDir reports whether the slash path rel is dir or lies beneath it.
func underDir(rel, dir string) bool {
	return rel == dir || strings.HasPrefix(rel, dir+"/")
}

// ValidateRelPath resolves relPath against absRoot for reading. It rejects
// absolute inputs, parent traversal and symlink escapes, and denies reads
// under .git/ and the artifacts directory.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInside(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDir(rel, ".git") || underDir(rel, ArtifactsDirName) {
		return "", ToolError{Code: CodeDeniedRead, Message: "reads under .git/ or " + ArtifactsDirName + "/ are not allowed"}
	}
	return candidate, nil
}
