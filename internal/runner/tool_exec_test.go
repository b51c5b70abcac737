package runner_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/petasbytes/uigen/internal/prompt"
	"github.com/petasbytes/uigen/internal/provider"
	"github.com/petasbytes/uigen/internal/provider/mock"
	"github.com/petasbytes/uigen/internal/runner"
	"github.com/petasbytes/uigen/internal/telemetry"
	"github.com/petasbytes/uigen/tools"
)

func readEvents(t *testing.T, e *telemetry.Emitter) []map[string]any {
	t.Helper()
	f, err := os.Open(e.Path())
	if err != nil {
		t.Fatalf("open events: %v", err)
	}
	defer f.Close()

	var events []map[string]any
	s := bufio.NewScanner(f)
	s.Buffer(nil, 1<<20)
	for s.Scan() {
		var m map[string]any
		if err := json.Unmarshal(s.Bytes(), &m); err != nil {
			t.Fatalf("invalid JSON line: %v", err)
		}
		events = append(events, m)
	}
	return events
}

func TestRunner_ToolExec_JSONL_Success(t *testing.T) {
	ws, _ := newWorkspace(t)
	events := telemetry.New(t.TempDir(), true, nil)
	r := runner.New(mock.New("m", mock.WithoutLatency()), tools.Registry(ws), runner.WithTelemetry(events))

	ctx := telemetry.WithCallID(context.Background(), "call-xyz")
	if _, err := r.Run(ctx, []prompt.Message{prompt.UserText("a counter")}, 8); err != nil {
		t.Fatalf("run: %v", err)
	}

	counts := map[string]int{}
	for _, ev := range readEvents(t, events) {
		counts[ev["event"].(string)]++
		if ev["call_id"] != "call-xyz" {
			t.Errorf("event %v has call_id %v", ev["event"], ev["call_id"])
		}
		if ev["event"] != "tool_exec" {
			continue
		}
		if ev["tool_name"] != tools.EditorToolName {
			t.Errorf("tool_name: got %v", ev["tool_name"])
		}
		if v, ok := ev["input_size"].(float64); !ok || v <= 0 {
			t.Errorf("input_size should be > 0, got %v", ev["input_size"])
		}
		if v, ok := ev["output_size"].(float64); !ok || v <= 0 {
			t.Errorf("output_size should be > 0, got %v", ev["output_size"])
		}
		if e, ok := ev["error"]; !ok || e != nil {
			t.Errorf("error should be present and null, got %v", e)
		}
	}
	if counts["request_features"] != 1 || counts["step_complete"] != 4 || counts["tool_exec"] != 3 {
		t.Fatalf("unexpected event counts: %v", counts)
	}
}

func TestRunner_ToolExec_JSONL_NotFound(t *testing.T) {
	events := telemetry.New(t.TempDir(), true, nil)
	m := &scripted{steps: [][]provider.StreamPart{{
		provider.ToolCall{ID: "nf1", Name: "does_not_exist", Args: `{"a":1}`},
		provider.Finish{Reason: provider.FinishToolCalls},
	}}}
	r := runner.New(m, nil, runner.WithTelemetry(events))
	if _, err := r.RunOneStep(context.Background(), nil); err != nil {
		t.Fatalf("step: %v", err)
	}

	var exec map[string]any
	for _, ev := range readEvents(t, events) {
		if ev["event"] == "tool_exec" {
			exec = ev
		}
	}
	if exec == nil {
		t.Fatal("no tool_exec event found")
	}
	if exec["error"] != "tool not found" || exec["output_size"] != float64(0) {
		t.Fatalf("unexpected not-found event: %#v", exec)
	}
	if s, _ := exec["call_id"].(string); strings.TrimSpace(s) == "" {
		t.Fatal("a call id should be generated when the context has none")
	}
}

func TestRunner_Telemetry_NoRawPayloadLeak(t *testing.T) {
	ws, _ := newWorkspace(t)
	events := telemetry.New(t.TempDir(), true, nil)
	r := runner.New(mock.New("m", mock.WithoutLatency()), tools.Registry(ws), runner.WithTelemetry(events))

	secret := "__SECRET_CARD_REQUEST__"
	if _, err := r.Run(context.Background(), []prompt.Message{prompt.UserText("a card " + secret)}, 8); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(events.Path())
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	for _, leak := range []string{secret, "useState", "Amazing Product"} {
		if strings.Contains(string(data), leak) {
			t.Fatalf("raw payload %q leaked into telemetry", leak)
		}
	}
}

func TestRunner_Telemetry_DisabledNoWrites(t *testing.T) {
	ws, _ := newWorkspace(t)
	events := telemetry.New(t.TempDir(), false, nil)
	r := runner.New(mock.New("m", mock.WithoutLatency()), tools.Registry(ws), runner.WithTelemetry(events))
	if _, err := r.Run(context.Background(), []prompt.Message{prompt.UserText("x")}, 8); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(events.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected no events file when disabled, got err=%v", err)
	}
}
