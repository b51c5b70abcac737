package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/petasbytes/uigen/internal/provider"
)

// ToolDefinition couples a tool's contract with its handler.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(input json.RawMessage) (string, error)
}

// Spec returns the provider-facing description of the tool.
func (d ToolDefinition) Spec() provider.ToolSpec {
	return provider.ToolSpec{Name: d.Name, Description: d.Description, InputSchema: d.InputSchema}
}

// GenerateSchema reflects T into an inline JSON schema.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
