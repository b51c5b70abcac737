package windowing_test

import (
	"github.com/petasbytes/uigen/internal/prompt"
	"github.com/petasbytes/uigen/internal/windowing"
)

// Text part constructor
func T(text string) prompt.Part { return prompt.TextPart{Text: text} }

// Tool call part with empty arguments
func TC(id string) prompt.Part { return prompt.ToolCallPart{ID: id, Name: "str_replace_editor"} }

// Tool result (no payload), with optional error flag
func TR(id string, isErr bool) prompt.Part {
	return prompt.ToolResultPart{ToolCallID: id, ToolName: "str_replace_editor", IsError: isErr}
}

// Tool result with a string payload
func TRString(id, s string) prompt.Part {
	return prompt.ToolResultPart{ToolCallID: id, ToolName: "str_replace_editor", Result: s}
}

func Asst(parts ...prompt.Part) prompt.Message { return prompt.AssistantParts(parts...) }

func Tool(parts ...prompt.Part) prompt.Message {
	return prompt.Message{Role: prompt.RoleTool, Content: prompt.Parts(parts)}
}

func User(text string) prompt.Message { return prompt.UserText(text) }

// groupsEqual is a small utility used by grouping tests.
func groupsEqual(got, want []windowing.Group) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
