package fsops

import (
	"errors"
	"io/fs"
	"os"

	"github.com/petasbytes/uigen/internal/safety"
)

// ReadFile returns the content of the file at relPath.
// Policy violations, missing files and directories are reported as safety.ToolError.
func (w *Workspace) ReadFile(relPath string) (string, error) {
	absPath, err := safety.ValidateRelPath(w.roots.Read, relPath)
	if err != nil {
		return "", err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return "", statError(err, relPath)
	}
	if fi.IsDir() {
		return "", safety.ToolError{Code: safety.CodeNotAFile, Message: "path is a directory"}
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsDir reports whether relPath names an existing directory.
func (w *Workspace) IsDir(relPath string) (bool, error) {
	absPath, err := safety.ValidateRelPath(w.roots.Read, relPath)
	if err != nil {
		return false, err
	}
	fi, err := os.Stat(absPath)
	if err != nil {
		return false, statError(err, relPath)
	}
	return fi.IsDir(), nil
}

func statError(err error, relPath string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return safety.ToolError{Code: safety.CodeNotFound, Message: "no such file or directory: " + relPath}
	}
	return err
}
