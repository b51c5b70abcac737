package windowing

import (
	"unicode/utf8"

	"github.com/petasbytes/uigen/internal/prompt"
)

// TokenCounter estimates input-token cost for messages or groups.
type TokenCounter interface {
	CountMessage(m prompt.Message) int
	CountGroup(g Group, all []prompt.Message) int
}

// HeuristicCounter is the default deterministic estimator.
// Rules:
// - plain text content: rune count plus one overhead
// - text parts: rune count of the text
// - tool call parts: rune count of the JSON arguments
// - tool result parts: rune count of the result
// Every part adds a fixed overhead for minimal formatting.
type HeuristicCounter struct{}

// Fixed per-part overhead; changing it requires updating the guard tests.
const blockOverhead = 4

func (HeuristicCounter) CountMessage(m prompt.Message) int {
	switch c := m.Content.(type) {
	case prompt.Text:
		return utf8.RuneCountInString(string(c)) + blockOverhead
	case prompt.Parts:
		total := 0
		for _, p := range c {
			total += countPart(p)
		}
		return total
	}
	return 0
}

func (h HeuristicCounter) CountGroup(g Group, all []prompt.Message) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountMessage(all[i])
	}
	return total
}

func countPart(p prompt.Part) int {
	switch v := p.(type) {
	case prompt.TextPart:
		return utf8.RuneCountInString(v.Text) + blockOverhead
	case prompt.ToolCallPart:
		return utf8.RuneCountInString(v.Args) + blockOverhead
	case prompt.ToolResultPart:
		return utf8.RuneCountInString(v.Result) + blockOverhead
	}
	return blockOverhead
}
