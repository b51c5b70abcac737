// Package prompt holds the conversation model shared by providers, the runner
// and transcript persistence.
//
// Message content comes in two shapes, plain text or an ordered list of parts.
// Both are variants of Content and are matched with a type switch:
//
//	switch c := msg.Content.(type) {
//	case prompt.Text:
//	case prompt.Parts:
//	}
package prompt

import "strings"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Content is either Text or Parts.
type Content interface {
	isContent()
}

// Text is plain string content.
type Text string

// Parts is structured content.
type Parts []Part

func (Text) isContent()  {}
func (Parts) isContent() {}

// Part is one of TextPart, ToolCallPart or ToolResultPart.
type Part interface {
	isPart()
}

type TextPart struct {
	Text string `json:"text"`
}

// ToolCallPart records a tool invocation requested by the assistant.
// Args is the raw JSON argument object.
type ToolCallPart struct {
	ID   string `json:"tool_call_id"`
	Name string `json:"tool_name"`
	Args string `json:"args"`
}

// ToolResultPart answers the ToolCallPart with the same id.
type ToolResultPart struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Result     string `json:"result"`
	IsError    bool   `json:"is_error,omitempty"`
}

func (TextPart) isPart()       {}
func (ToolCallPart) isPart()   {}
func (ToolResultPart) isPart() {}

// Message is a single conversation entry. Messages are treated as immutable
// once appended to a history.
type Message struct {
	Role    Role
	Content Content
}

func UserText(s string) Message {
	return Message{Role: RoleUser, Content: Text(s)}
}

func AssistantParts(parts ...Part) Message {
	return Message{Role: RoleAssistant, Content: Parts(parts)}
}

func ToolResults(results ...ToolResultPart) Message {
	parts := make(Parts, 0, len(results))
	for _, r := range results {
		parts = append(parts, r)
	}
	return Message{Role: RoleTool, Content: parts}
}

// PlainText returns the text carried by the message. For Parts content only
// TextPart values contribute and they are joined with a single space.
func (m Message) PlainText() string {
	switch c := m.Content.(type) {
	case Text:
		return string(c)
	case Parts:
		texts := make([]string, 0, len(c))
		for _, p := range c {
			if tp, ok := p.(TextPart); ok {
				texts = append(texts, tp.Text)
			}
		}
		return strings.Join(texts, " ")
	default:
		return ""
	}
}

// ToolCalls returns the tool call parts of the message in order.
func (m Message) ToolCalls() []ToolCallPart {
	parts, ok := m.Content.(Parts)
	if !ok {
		return nil
	}
	var calls []ToolCallPart
	for _, p := range parts {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// ToolResults returns the tool result parts of the message in order.
func (m Message) ToolResults() []ToolResultPart {
	parts, ok := m.Content.(Parts)
	if !ok {
		return nil
	}
	var results []ToolResultPart
	for _, p := range parts {
		if tr, ok := p.(ToolResultPart); ok {
			results = append(results, tr)
		}
	}
	return results
}

// LatestUserText walks history backwards and returns the text of the most
// recent user message, or "" when there is none.
func LatestUserText(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleUser {
			return history[i].PlainText()
		}
	}
	return ""
}

// CountToolMessages returns how many tool-role messages history contains.
func CountToolMessages(history []Message) int {
	n := 0
	for _, m := range history {
		if m.Role == RoleTool {
			n++
		}
	}
	return n
}
