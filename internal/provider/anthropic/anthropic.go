// Package anthropic adapts the Anthropic Messages API to provider.LanguageModel.
//
// The conversation is windowed before sending when a token budget is set:
// tool call pairs are kept whole and the newest groups win.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/uigen/internal/prompt"
	"github.com/petasbytes/uigen/internal/provider"
	"github.com/petasbytes/uigen/internal/telemetry"
	"github.com/petasbytes/uigen/internal/windowing"
)

const ProviderName = "anthropic"

// DefaultModel is used when no model id is configured.
const DefaultModel sdk.Model = "claude-opus-4-6"

const defaultMaxTokens = 1024

type Model struct {
	client  *sdk.Client
	modelID sdk.Model
	budget  int
	counter windowing.TokenCounter
	events  *telemetry.Emitter
	logger  *slog.Logger
}

var _ provider.LanguageModel = (*Model)(nil)

type Option func(*Model)

// WithTokenBudget enables pair-safe windowing of the prompt. Zero disables it.
func WithTokenBudget(n int) Option {
	return func(m *Model) { m.budget = n }
}

func WithTelemetry(e *telemetry.Emitter) Option {
	return func(m *Model) { m.events = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// New wraps an existing client.
func New(client *sdk.Client, modelID string, opts ...Option) *Model {
	if modelID == "" {
		modelID = string(DefaultModel)
	}
	m := &Model{
		client:  client,
		modelID: sdk.Model(modelID),
		counter: windowing.HeuristicCounter{},
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With(slog.String("component", "anthropic-model"))
	return m
}

// NewWithAPIKey builds a client from apiKey and wraps it.
func NewWithAPIKey(apiKey, modelID string, opts ...Option) *Model {
	c := sdk.NewClient(option.WithAPIKey(apiKey))
	return New(&c, modelID, opts...)
}

func (m *Model) Provider() string { return ProviderName }
func (m *Model) ModelID() string  { return string(m.modelID) }

func (m *Model) Generate(ctx context.Context, opts provider.CallOptions) (*provider.GenerateResult, error) {
	params, err := m.params(ctx, opts)
	if err != nil {
		return nil, err
	}
	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: messages.new: %w", err)
	}

	res := &provider.GenerateResult{RawCall: provider.RawCallFrom(opts)}
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case sdk.TextBlock:
			res.Text += v.Text
		case sdk.ToolUseBlock:
			// Raw JSON input is passed through to the tool implementation.
			res.ToolCalls = append(res.ToolCalls, provider.ToolCall{ID: v.ID, Name: v.Name, Args: rawArgs(v.JSON.Input.Raw())})
		}
	}
	res.FinishReason = finishReason(msg.StopReason, len(res.ToolCalls) > 0)
	res.Usage = provider.Usage{PromptTokens: int(msg.Usage.InputTokens), CompletionTokens: int(msg.Usage.OutputTokens)}
	return res, nil
}

// Stream opens the request lazily when Parts is first ranged over.
func (m *Model) Stream(ctx context.Context, opts provider.CallOptions) (*provider.StreamResult, error) {
	params, err := m.params(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &provider.StreamResult{Parts: m.streamParts(ctx, params), RawCall: provider.RawCallFrom(opts)}, nil
}

func (m *Model) streamParts(ctx context.Context, params sdk.MessageNewParams) iter.Seq2[provider.StreamPart, error] {
	return func(yield func(provider.StreamPart, error) bool) {
		stream := m.client.Messages.NewStreaming(ctx, params)
		defer stream.Close()

		var msg sdk.Message
		calls := 0
		for stream.Next() {
			event := stream.Current()
			if err := msg.Accumulate(event); err != nil {
				yield(nil, fmt.Errorf("anthropic: accumulate stream: %w", err))
				return
			}
			switch ev := event.AsAny().(type) {
			case sdk.ContentBlockDeltaEvent:
				if d, ok := ev.Delta.AsAny().(sdk.TextDelta); ok && d.Text != "" {
					if !yield(provider.TextDelta{Text: d.Text}, nil) {
						return
					}
				}
			case sdk.ContentBlockStopEvent:
				// Tool input arrives in fragments; emit the call once the block is complete.
				block := msg.Content[len(msg.Content)-1]
				if block.Type != "tool_use" {
					continue
				}
				calls++
				if !yield(provider.ToolCall{ID: block.ID, Name: block.Name, Args: rawArgs(string(block.Input))}, nil) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			yield(nil, fmt.Errorf("anthropic: stream: %w", err))
			return
		}
		yield(provider.Finish{
			Reason: finishReason(msg.StopReason, calls > 0),
			Usage:  provider.Usage{PromptTokens: int(msg.Usage.InputTokens), CompletionTokens: int(msg.Usage.OutputTokens)},
		}, nil)
	}
}

// params windows the prompt and builds the request body.
func (m *Model) params(ctx context.Context, opts provider.CallOptions) (sdk.MessageNewParams, error) {
	window := opts.Prompt
	if m.budget > 0 {
		var stats windowing.Stats
		window, stats = windowing.PrepareSendWindow(opts.Prompt, m.budget, m.counter)

		callID, _ := telemetry.CallIDFromContext(ctx)
		m.events.Emit("window_prepared", map[string]any{
			"call_id":            callID,
			"model":              string(m.modelID),
			"budget":             stats.Budget,
			"total_estimated":    stats.Total,
			"included_groups":    stats.IncludedGroups,
			"skipped_groups":     stats.SkippedGroups,
			"over_budget_newest": stats.OverBudgetNewest,
		})
		m.logger.Debug("window prepared",
			slog.Int("budget", stats.Budget),
			slog.Int("est_total", stats.Total),
			slog.Int("groups_in", stats.IncludedGroups),
			slog.Int("groups_skip", stats.SkippedGroups),
		)

		// The newest group must always fit; otherwise the budget is misconfigured.
		if stats.OverBudgetNewest {
			return sdk.MessageNewParams{}, fmt.Errorf("windowing: newest group exceeds token budget %d; increase model.token_budget", m.budget)
		}
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := sdk.MessageNewParams{
		Model:     m.modelID,
		MaxTokens: int64(maxTokens),
		Messages:  toMessageParams(window),
		Tools:     toToolParams(opts.Tools),
	}
	if opts.Temperature > 0 {
		params.Temperature = sdk.Float(opts.Temperature)
	}
	return params, nil
}

// toMessageParams converts the conversation. Tool results travel as user
// messages carrying tool_result blocks.
func toMessageParams(msgs []prompt.Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(msgs))
	for _, msg := range msgs {
		blocks := toBlocks(msg)
		if len(blocks) == 0 {
			continue
		}
		if msg.Role == prompt.RoleAssistant {
			out = append(out, sdk.NewAssistantMessage(blocks...))
		} else {
			out = append(out, sdk.NewUserMessage(blocks...))
		}
	}
	return out
}

func toBlocks(msg prompt.Message) []sdk.ContentBlockParamUnion {
	switch c := msg.Content.(type) {
	case prompt.Text:
		if c == "" {
			return nil
		}
		return []sdk.ContentBlockParamUnion{sdk.NewTextBlock(string(c))}
	case prompt.Parts:
		blocks := make([]sdk.ContentBlockParamUnion, 0, len(c))
		for _, p := range c {
			switch v := p.(type) {
			case prompt.TextPart:
				if v.Text != "" {
					blocks = append(blocks, sdk.NewTextBlock(v.Text))
				}
			case prompt.ToolCallPart:
				blocks = append(blocks, sdk.NewToolUseBlock(v.ID, json.RawMessage(rawArgs(v.Args)), v.Name))
			case prompt.ToolResultPart:
				blocks = append(blocks, sdk.NewToolResultBlock(v.ToolCallID, v.Result, v.IsError))
			}
		}
		return blocks
	}
	return nil
}

func toToolParams(specs []provider.ToolSpec) []sdk.ToolUnionParam {
	if len(specs) == 0 {
		return nil
	}
	out := make([]sdk.ToolUnionParam, 0, len(specs))
	for _, s := range specs {
		var schema sdk.ToolInputSchemaParam
		if s.InputSchema != nil {
			schema.Properties = s.InputSchema.Properties
			schema.Required = s.InputSchema.Required
		}
		out = append(out, sdk.ToolUnionParam{OfTool: &sdk.ToolParam{
			Name:        s.Name,
			Description: sdk.String(s.Description),
			InputSchema: schema,
		}})
	}
	return out
}

// rawArgs returns s when it is a JSON document and "{}" otherwise.
func rawArgs(s string) string {
	if s == "" || !json.Valid([]byte(s)) {
		return "{}"
	}
	return s
}

func finishReason(r sdk.StopReason, hasCalls bool) provider.FinishReason {
	switch r {
	case sdk.StopReasonEndTurn, sdk.StopReasonStopSequence:
		return provider.FinishStop
	case sdk.StopReasonToolUse:
		return provider.FinishToolCalls
	case sdk.StopReasonMaxTokens:
		return provider.FinishLength
	case "":
		if hasCalls {
			return provider.FinishToolCalls
		}
		return provider.FinishStop
	default:
		return provider.FinishOther
	}
}
