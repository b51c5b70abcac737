package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/petasbytes/uigen/internal/fsops"
	"github.com/petasbytes/uigen/internal/safety"
)

// EditorToolName is the name models use to call the file editor.
const EditorToolName = "str_replace_editor"

// Editor commands.
const (
	CommandView       = "view"
	CommandCreate     = "create"
	CommandStrReplace = "str_replace"
)

// EditorInput is the argument object of str_replace_editor. Field order is
// the order of keys in encoded calls.
type EditorInput struct {
	Command   string `json:"command" jsonschema:"enum=view,enum=create,enum=str_replace" jsonschema_description:"The operation to perform."`
	Path      string `json:"path" jsonschema_description:"Workspace-rooted file or directory path, e.g. /components/Card.jsx."`
	FileText  string `json:"file_text,omitempty" jsonschema_description:"Full file content for create."`
	OldStr    string `json:"old_str,omitempty" jsonschema_description:"Exact text to replace for str_replace; must occur exactly once."`
	NewStr    string `json:"new_str,omitempty" jsonschema_description:"Replacement text for str_replace."`
	ViewRange []int  `json:"view_range,omitempty" jsonschema_description:"Optional [start, end] 1-based line range for view; end -1 reads to the end."`
}

var EditorInputSchema = GenerateSchema[EditorInput]()

const editorDescription = `View, create and edit files in the component workspace.

view: show a file with line numbers, or list a directory.
create: write file_text to path, replacing any existing file.
str_replace: replace the single occurrence of old_str in path with new_str.
`

// NewEditor returns the str_replace_editor definition operating on ws.
func NewEditor(ws *fsops.Workspace) ToolDefinition {
	e := &editor{ws: ws}
	return ToolDefinition{
		Name:        EditorToolName,
		Description: editorDescription,
		InputSchema: EditorInputSchema,
		Function:    e.run,
	}
}

type editor struct {
	ws *fsops.Workspace
}

func (e *editor) run(input json.RawMessage) (string, error) {
	var in EditorInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", invalid("malformed input: " + err.Error())
	}

	switch in.Command {
	case CommandView:
		return e.view(in)
	case CommandCreate:
		return e.create(in)
	case CommandStrReplace:
		return e.strReplace(in)
	default:
		return "", invalid(fmt.Sprintf("unknown command %q", in.Command))
	}
}

func (e *editor) create(in EditorInput) (string, error) {
	rel, err := filePath(in.Path)
	if err != nil {
		return "", err
	}
	if err := e.ws.WriteFile(rel, in.FileText); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully created file %s", in.Path), nil
}

func (e *editor) strReplace(in EditorInput) (string, error) {
	rel, err := filePath(in.Path)
	if err != nil {
		return "", err
	}
	if in.OldStr == "" {
		return "", invalid("old_str must not be empty")
	}
	if in.OldStr == in.NewStr {
		return "", invalid("old_str and new_str must differ")
	}

	content, err := e.ws.ReadFile(rel)
	if err != nil {
		return "", err
	}
	switch n := strings.Count(content, in.OldStr); n {
	case 0:
		return "", invalid("old_str not found in " + in.Path)
	case 1:
	default:
		return "", invalid(fmt.Sprintf("old_str occurs %d times in %s; include more context to make it unique", n, in.Path))
	}

	if err := e.ws.WriteFile(rel, strings.Replace(content, in.OldStr, in.NewStr, 1)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully replaced text in %s", in.Path), nil
}

// workspacePath maps a workspace-rooted path to a sandbox-relative one.
// The workspace root itself maps to ".".
func workspacePath(p string) string {
	rel := strings.TrimLeft(strings.TrimSpace(p), "/")
	if rel == "" {
		return "."
	}
	return rel
}

// filePath is workspacePath for commands that need a file, not the root.
func filePath(p string) (string, error) {
	rel := workspacePath(p)
	if rel == "." {
		return "", invalid("path must name a file")
	}
	return rel, nil
}

func invalid(msg string) error {
	return safety.ToolError{Code: safety.CodeInvalidInput, Message: msg}
}
