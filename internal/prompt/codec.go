package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	partTypeText       = "text"
	partTypeToolCall   = "tool-call"
	partTypeToolResult = "tool-result"
)

// MarshalJSON encodes Text content as a JSON string and Parts content as an
// array of objects tagged with "type".
func (m Message) MarshalJSON() ([]byte, error) {
	out := []byte(`{}`)
	out, err := sjson.SetBytes(out, "role", string(m.Role))
	if err != nil {
		return nil, err
	}

	switch c := m.Content.(type) {
	case nil:
		return sjson.SetBytes(out, "content", "")
	case Text:
		return sjson.SetBytes(out, "content", string(c))
	case Parts:
		arr := []byte(`[]`)
		for _, p := range c {
			b, err := marshalPart(p)
			if err != nil {
				return nil, err
			}
			if arr, err = sjson.SetRawBytes(arr, "-1", b); err != nil {
				return nil, err
			}
		}
		return sjson.SetRawBytes(out, "content", arr)
	default:
		return nil, fmt.Errorf("prompt: unsupported content %T", c)
	}
}

func marshalPart(p Part) ([]byte, error) {
	var typ string
	switch p.(type) {
	case TextPart:
		typ = partTypeText
	case ToolCallPart:
		typ = partTypeToolCall
	case ToolResultPart:
		typ = partTypeToolResult
	default:
		return nil, fmt.Errorf("prompt: unsupported part %T", p)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(b, "type", typ)
}

// UnmarshalJSON accepts content as a string or as an array of typed parts.
func (m *Message) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("prompt: invalid message JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("prompt: message must be an object")
	}

	role := Role(root.Get("role").String())
	switch role {
	case RoleUser, RoleAssistant, RoleTool:
	default:
		return fmt.Errorf("prompt: unknown role %q", role)
	}

	content := root.Get("content")
	var c Content
	switch {
	case !content.Exists() || content.Type == gjson.Null:
		c = Text("")
	case content.Type == gjson.String:
		c = Text(content.String())
	case content.IsArray():
		parts := Parts{}
		var perr error
		content.ForEach(func(_, item gjson.Result) bool {
			var p Part
			p, perr = unmarshalPart(item)
			if perr != nil {
				return false
			}
			parts = append(parts, p)
			return true
		})
		if perr != nil {
			return perr
		}
		c = parts
	default:
		return fmt.Errorf("prompt: content must be a string or an array")
	}

	*m = Message{Role: role, Content: c}
	return nil
}

func unmarshalPart(item gjson.Result) (Part, error) {
	switch typ := item.Get("type").String(); typ {
	case partTypeText:
		var p TextPart
		if err := json.Unmarshal([]byte(item.Raw), &p); err != nil {
			return nil, err
		}
		return p, nil
	case partTypeToolCall:
		var p ToolCallPart
		if err := json.Unmarshal([]byte(item.Raw), &p); err != nil {
			return nil, err
		}
		return p, nil
	case partTypeToolResult:
		var p ToolResultPart
		if err := json.Unmarshal([]byte(item.Raw), &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("prompt: unknown part type %q", typ)
	}
}
