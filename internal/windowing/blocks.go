package windowing

import (
	"log/slog"

	"github.com/petasbytes/uigen/internal/prompt"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of messages [Start, End) in the original slice.
// Kind indicates whether it is a singleton or a validated pair.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into msgs
	End   int // exclusive index into msgs
}

// GroupBlocks groups messages into atomic units that preserve tool call pairs.
// Invariants:
// - A pair is exactly two adjacent messages: assistant(tool calls+...) then tool(results...).
// - In the tool message, all result parts must come first; text (if any) comes after.
// - Parallel completeness: every call id in the assistant message must be answered
// in the leading result segment, and no result may answer an unknown id.
// - Error results are treated the same as successful ones for grouping.
func GroupBlocks(msgs []prompt.Message) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		m := msgs[i]
		if m.Role == prompt.RoleAssistant {
			callIDs := collectCallIDs(m)
			if len(callIDs) > 0 {
				if i+1 < len(msgs) && msgs[i+1].Role == prompt.RoleTool {
					valid, resultIDs := leadingResultIDs(msgs[i+1])
					if valid && sameIDs(resultIDs, callIDs) {
						groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
						i += 2
						continue
					}
					var reason string
					switch {
					case !valid:
						reason = "ordering_invalid"
					case !coversAll(resultIDs, callIDs):
						reason = "missing_results"
					default:
						reason = "extra_results"
					}
					logExcluded(reason, i)
				} else {
					logExcluded("not_followed_by_tool", i)
				}
			}
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

func collectCallIDs(m prompt.Message) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, c := range m.ToolCalls() {
		if c.ID != "" {
			ids[c.ID] = struct{}{}
		}
	}
	return ids
}

// leadingResultIDs returns the ids in the leading result segment of a tool
// message. valid is false when a result follows a non-result part.
func leadingResultIDs(m prompt.Message) (valid bool, ids map[string]struct{}) {
	ids = make(map[string]struct{})
	parts, ok := m.Content.(prompt.Parts)
	if !ok {
		return true, ids
	}
	seenOther := false
	for _, p := range parts {
		if r, ok := p.(prompt.ToolResultPart); ok {
			if seenOther {
				return false, ids
			}
			if r.ToolCallID != "" {
				ids[r.ToolCallID] = struct{}{}
			}
			continue
		}
		seenOther = true
	}
	return true, ids
}

// coversAll checks that every id in required is present in have.
func coversAll(have, required map[string]struct{}) bool {
	for id := range required {
		if _, ok := have[id]; !ok {
			return false
		}
	}
	return true
}

func sameIDs(have, want map[string]struct{}) bool {
	return coversAll(have, want) && coversAll(want, have)
}

func logExcluded(reason string, idx int) {
	slog.Debug("exclude pair", slog.String("component", "windowing"), slog.String("reason", reason), slog.Int("idx", idx))
}
