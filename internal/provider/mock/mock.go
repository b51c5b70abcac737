// Package mock implements a scripted stand-in for the hosted model. It is used
// when no API key is configured so the rest of the application still works.
//
// The script is keyed on the number of tool results already in the history:
//
//	0  create /App.jsx
//	1  create /components/<Name>.jsx (Counter, ContactForm or Card)
//	2  str_replace edit inside the component
//	3+ final summary, no tool call
//
// The model holds no state between calls; the turn index is recomputed from
// the history each time.
package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/petasbytes/uigen/internal/metrics"
	"github.com/petasbytes/uigen/internal/prompt"
	"github.com/petasbytes/uigen/internal/provider"
	"github.com/petasbytes/uigen/tools"
)

// ProviderName is reported by Model.Provider.
const ProviderName = "mock"

// Tool call ids. The entry point call is emitted first but numbered last.
const (
	callIDComponent = "call_1"
	callIDEnhance   = "call_2"
	callIDApp       = "call_3"
)

// Per-character pacing for each step.
const (
	appDelay       = 15 * time.Millisecond
	componentDelay = 25 * time.Millisecond
	enhanceDelay   = 25 * time.Millisecond
	summaryDelay   = 30 * time.Millisecond
)

// Sleeper pauses between emitted characters. It returns ctx.Err() when the
// context ends before d elapses.
type Sleeper func(ctx context.Context, d time.Duration) error

// Model is the scripted language model.
type Model struct {
	modelID string
	sleep   Sleeper
	logger  *slog.Logger
}

var _ provider.LanguageModel = (*Model)(nil)

type Option func(*Model)

// WithoutLatency disables the simulated delay between characters.
func WithoutLatency() Option {
	return func(m *Model) { m.sleep = noSleep }
}

// WithSleeper replaces the pacing function.
func WithSleeper(s Sleeper) Option {
	return func(m *Model) {
		if s != nil {
			m.sleep = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// New returns a mock model reporting modelID.
func New(modelID string, opts ...Option) *Model {
	m := &Model{modelID: modelID, sleep: sleepContext, logger: slog.Default()}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With(slog.String("component", "mock-model"))
	return m
}

func (m *Model) Provider() string { return ProviderName }
func (m *Model) ModelID() string  { return m.modelID }

// Generate drains the script and reassembles it into one result.
func (m *Model) Generate(ctx context.Context, opts provider.CallOptions) (*provider.GenerateResult, error) {
	res, err := provider.Collect(m.Script(ctx, opts.Prompt, prompt.LatestUserText(opts.Prompt)))
	if err != nil {
		return nil, err
	}
	res.RawCall = provider.RawCallFrom(opts)
	return res, nil
}

// Stream returns the script as an incremental sequence. Nothing is produced
// until the caller ranges over Parts.
func (m *Model) Stream(ctx context.Context, opts provider.CallOptions) (*provider.StreamResult, error) {
	return &provider.StreamResult{
		Parts:   m.Script(ctx, opts.Prompt, prompt.LatestUserText(opts.Prompt)),
		RawCall: provider.RawCallFrom(opts),
	}, nil
}

// step is the fully planned output of one script branch.
type step struct {
	text   string
	delay  time.Duration
	call   *provider.ToolCall
	reason provider.FinishReason
}

// Script returns the event sequence for history. request selects the demo
// component. The sequence is lazy and finite: text deltas one character at a
// time, at most one tool call, then a Finish part.
//
// If the consumer stops ranging, production stops. If ctx ends while pacing,
// ctx.Err() is yielded once and the sequence ends.
func (m *Model) Script(ctx context.Context, history []prompt.Message, request string) iter.Seq2[provider.StreamPart, error] {
	return func(yield func(provider.StreamPart, error) bool) {
		turn := prompt.CountToolMessages(history)
		comp := selectComponent(request)
		st, ok := plan(turn, comp)
		if !ok {
			return
		}
		m.logger.Debug("scripted step", slog.Int("turn", turn), slog.String("component", comp.name))

		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		for _, r := range st.text {
			if !yield(provider.TextDelta{Text: string(r)}, nil) {
				return
			}
			if err := m.sleep(ctx, st.delay); err != nil {
				yield(nil, err)
				return
			}
		}

		completion := st.text
		if st.call != nil {
			if !yield(*st.call, nil) {
				return
			}
			completion += st.call.Args
		}

		yield(provider.Finish{
			Reason: st.reason,
			Usage: provider.Usage{
				PromptTokens:     metrics.EstimateTokensAll(promptTexts(history)...),
				CompletionTokens: metrics.EstimateTokens(completion),
			},
		}, nil)
	}
}

// selectComponent matches keywords in order; the first hit wins.
func selectComponent(request string) component {
	lower := strings.ToLower(request)
	switch {
	case strings.Contains(lower, "form"):
		return formComponent
	case strings.Contains(lower, "card"):
		return cardComponent
	default:
		return counterComponent
	}
}

func plan(turn int, c component) (step, bool) {
	switch {
	case turn == 0:
		return step{
			text: "This is a static response. You can set ANTHROPIC_API_KEY (or model.api_key in the config file) " +
				"to use the Anthropic API for component generation. Let me create an App.jsx file to display the component.",
			delay:  appDelay,
			call:   editorCall(callIDApp, tools.EditorInput{Command: tools.CommandCreate, Path: "/App.jsx", FileText: appSource(c)}),
			reason: provider.FinishToolCalls,
		}, true
	case turn == 1:
		return step{
			text:   fmt.Sprintf("I'll create a %s component for you.", c.name),
			delay:  componentDelay,
			call:   editorCall(callIDComponent, tools.EditorInput{Command: tools.CommandCreate, Path: c.path(), FileText: c.source}),
			reason: provider.FinishToolCalls,
		}, true
	case turn == 2:
		return step{
			text:   "Now let me enhance the component with better styling.",
			delay:  enhanceDelay,
			call:   editorCall(callIDEnhance, tools.EditorInput{Command: tools.CommandStrReplace, Path: c.path(), OldStr: c.oldStr, NewStr: c.newStr}),
			reason: provider.FinishToolCalls,
		}, true
	case turn >= 3:
		return step{
			text: fmt.Sprintf("Perfect! I've created:\n\n"+
				"1. **%s.jsx** - A fully-featured %s component\n"+
				"2. **App.jsx** - The main app file that displays the component\n\n"+
				"The component is now ready to use. You can see the preview on the right side of the screen.",
				c.name, c.kind),
			delay:  summaryDelay,
			reason: provider.FinishStop,
		}, true
	default:
		return step{}, false
	}
}

func editorCall(id string, in tools.EditorInput) *provider.ToolCall {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// EditorInput holds only strings and ints; Encode cannot fail.
	_ = enc.Encode(in)
	return &provider.ToolCall{ID: id, Name: tools.EditorToolName, Args: strings.TrimSuffix(buf.String(), "\n")}
}

// promptTexts flattens every textual payload of history for usage estimates.
func promptTexts(history []prompt.Message) []string {
	var out []string
	for _, msg := range history {
		switch c := msg.Content.(type) {
		case prompt.Text:
			out = append(out, string(c))
		case prompt.Parts:
			for _, p := range c {
				switch v := p.(type) {
				case prompt.TextPart:
					out = append(out, v.Text)
				case prompt.ToolCallPart:
					out = append(out, v.Args)
				case prompt.ToolResultPart:
					out = append(out, v.Result)
				}
			}
		}
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
