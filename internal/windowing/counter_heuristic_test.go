package windowing_test

import (
	"testing"

	"github.com/petasbytes/uigen/internal/prompt"
	"github.com/petasbytes/uigen/internal/windowing"
)

// overhead derives the per-part overhead from an empty text part.
func overhead(h windowing.HeuristicCounter) int {
	return h.CountMessage(Asst(T("")))
}

func TestHeuristicCounter_TextParts_CountsRunes(t *testing.T) {
	h := windowing.HeuristicCounter{}
	got := h.CountMessage(Asst(T("hello"), T("👍")))
	// "hello" = 5 runes, "👍" = 1 rune; 2 parts overhead
	want := (5 + 1) + 2*overhead(h)
	if got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestHeuristicCounter_PlainText(t *testing.T) {
	h := windowing.HeuristicCounter{}
	if got, want := h.CountMessage(User("世界")), 2+overhead(h); got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestHeuristicCounter_ToolResult_Payload(t *testing.T) {
	h := windowing.HeuristicCounter{}
	got := h.CountMessage(Tool(TRString("t1", "abcdef")))
	if want := 6 + overhead(h); got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestHeuristicCounter_ToolCall_CountsArgs(t *testing.T) {
	h := windowing.HeuristicCounter{}
	call := prompt.ToolCallPart{ID: "c", Name: "str_replace_editor", Args: `{"a":1}`}
	got := h.CountMessage(Asst(call))
	if want := 7 + overhead(h); got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestHeuristicCounter_CountGroup_SumsMessages(t *testing.T) {
	h := windowing.HeuristicCounter{}
	msgs := []prompt.Message{
		User("a"),                   // 1 + overhead
		Asst(T("b"), T("c")),        // 1+1 + 2*overhead
		Tool(TRString("t1", "xyz")), // 3 + overhead
	}
	total := 0
	for _, g := range windowing.GroupBlocks(msgs) {
		total += h.CountGroup(g, msgs)
	}

	o := overhead(h)
	want := (1 + o) + (1 + 1 + 2*o) + (3 + o)
	if total != want {
		t.Fatalf("got=%d want=%d", total, want)
	}
}
