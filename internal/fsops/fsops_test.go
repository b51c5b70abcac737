package fsops_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/petasbytes/uigen/internal/fsops"
	"github.com/petasbytes/uigen/internal/safety"
)

func openWorkspace(t *testing.T) (*fsops.Workspace, string) {
	t.Helper()
	dir := t.TempDir()
	ws, err := fsops.Open(dir, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return ws, dir
}

func wantToolError(t *testing.T, err error, code string) {
	t.Helper()
	var te safety.ToolError
	if !errors.As(err, &te) {
		t.Fatalf("expected ToolError, got %T: %v", err, err)
	}
	if te.Code != code {
		t.Fatalf("unexpected code: got %s want %s", te.Code, code)
	}
}

func TestReadFile_HappyPath(t *testing.T) {
	ws, dir := openWorkspace(t)
	if err := os.WriteFile(filepath.Join(dir, "App.jsx"), []byte("export default 1;"), 0o644); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	got, err := ws.ReadFile("App.jsx")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "export default 1;" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestReadFile_DirectoryIsNotAFile(t *testing.T) {
	ws, dir := openWorkspace(t)
	if err := os.MkdirAll(filepath.Join(dir, "components"), 0o755); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	_, err := ws.ReadFile("components")
	wantToolError(t, err, safety.CodeNotAFile)
}

func TestReadFile_Missing(t *testing.T) {
	ws, _ := openWorkspace(t)
	_, err := ws.ReadFile("nope.jsx")
	wantToolError(t, err, safety.CodeNotFound)
}

func TestIsDir(t *testing.T) {
	ws, dir := openWorkspace(t)
	_ = os.MkdirAll(filepath.Join(dir, "components"), 0o755)
	_ = os.WriteFile(filepath.Join(dir, "App.jsx"), nil, 0o644)

	if ok, err := ws.IsDir("components"); err != nil || !ok {
		t.Fatalf("components: got %v, %v", ok, err)
	}
	if ok, err := ws.IsDir("App.jsx"); err != nil || ok {
		t.Fatalf("App.jsx: got %v, %v", ok, err)
	}
	_, err := ws.IsDir("missing")
	wantToolError(t, err, safety.CodeNotFound)
}

func TestListDir_SortedWithSuffixes(t *testing.T) {
	ws, dir := openWorkspace(t)
	for _, name := range []string{"b.jsx", "a.jsx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("prepare: %v", err)
		}
	}
	for _, d := range []string{"components", safety.ArtifactsDirName, ".git"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			t.Fatalf("prepare: %v", err)
		}
	}

	got, err := ws.ListDir("")
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}
	want := []string{"a.jsx", "b.jsx", "components/"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	empty, err := ws.ListDir("components")
	if err != nil {
		t.Fatalf("ListDir(components): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty listing, got %v", empty)
	}
}

func TestWriteFile_CreatesParents(t *testing.T) {
	ws, dir := openWorkspace(t)
	if err := ws.WriteFile(filepath.Join("components", "Card.jsx"), "card"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "components", "Card.jsx"))
	if err != nil {
		t.Fatalf("verify read: %v", err)
	}
	if string(b) != "card" {
		t.Fatalf("content mismatch: got %q", string(b))
	}
}

func TestWriteFile_DenyList(t *testing.T) {
	ws, _ := openWorkspace(t)
	wantToolError(t, ws.WriteFile(".git/HEAD", "ref: refs/heads/main\n"), safety.CodeDeniedWrite)
	wantToolError(t, ws.WriteFile("go.mod", "module x\n"), safety.CodeDeniedWrite)
	wantToolError(t, ws.WriteFile(safety.ArtifactsDirName+"/events.jsonl", "{}"), safety.CodeDeniedWrite)
}

func TestReadFile_TraversalDenied(t *testing.T) {
	ws, _ := openWorkspace(t)
	_, err := ws.ReadFile("../../x")
	wantToolError(t, err, safety.CodeOutsideSandbox)
}

func TestSeparateWriteRoot(t *testing.T) {
	readDir := t.TempDir()
	writeDir := t.TempDir()
	ws, err := fsops.Open(readDir, writeDir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := ws.WriteFile("out.jsx", "x"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(writeDir, "out.jsx")); err != nil {
		t.Fatalf("expected file under write root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(readDir, "out.jsx")); !os.IsNotExist(err) {
		t.Fatalf("file should not appear under read root")
	}
}
