package safety

import "path"

// writeDeniedBasenames may not be written at any depth.
var writeDeniedBasenames = map[string]struct{}{
	"go.mod": {},
	"go.sum": {},
}

// ValidateWritePath is ValidateRelPath for writes: same boundary checks, plus
// a deny for .git/, the artifacts directory and module files at any depth.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolveInside(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDir(rel, ".git") || underDir(rel, ArtifactsDirName) {
		return "", ToolError{Code: CodeDeniedWrite, Message: "writes under .git/ or " + ArtifactsDirName + "/ are not allowed"}
	}
	if _, denied := writeDeniedBasenames[path.Base(rel)]; denied {
		return "", ToolError{Code: CodeDeniedWrite, Message: "writes to " + path.Base(rel) + " are not allowed"}
	}
	return candidate, nil
}
