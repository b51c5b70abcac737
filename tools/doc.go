// Package tools defines the tools the model may call and their host-side
// implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - str_replace_editor: view, create and str_replace on workspace files.
//
// Tool paths are workspace-rooted: "/App.jsx" and "App.jsx" name the same file.
package tools
