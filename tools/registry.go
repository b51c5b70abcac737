package tools

import (
	"github.com/petasbytes/uigen/internal/fsops"
	"github.com/petasbytes/uigen/internal/provider"
)

// Registry returns all tool definitions wired to ws.
func Registry(ws *fsops.Workspace) []ToolDefinition {
	return []ToolDefinition{NewEditor(ws)}
}

// Specs converts definitions to provider tool specs.
func Specs(defs []ToolDefinition) []provider.ToolSpec {
	out := make([]provider.ToolSpec, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Spec())
	}
	return out
}

// Find returns the definition named name, or nil.
func Find(defs []ToolDefinition, name string) *ToolDefinition {
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i]
		}
	}
	return nil
}
