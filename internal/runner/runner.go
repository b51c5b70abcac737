package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petasbytes/uigen/internal/prompt"
	"github.com/petasbytes/uigen/internal/provider"
	"github.com/petasbytes/uigen/internal/telemetry"
	"github.com/petasbytes/uigen/tools"
)

type Runner struct {
	Model provider.LanguageModel
	Tools []tools.ToolDefinition

	out         io.Writer
	label       string
	events      *telemetry.Emitter
	logger      *slog.Logger
	tracer      trace.Tracer
	maxTokens   int
	temperature float64
}

type Option func(*Runner)

// WithOutput sets where streamed assistant text is written.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithLabel sets a prefix written before the first text of each step.
func WithLabel(s string) Option {
	return func(r *Runner) { r.label = s }
}

func WithTelemetry(e *telemetry.Emitter) Option {
	return func(r *Runner) { r.events = e }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) { r.tracer = tp.Tracer(telemetry.TracerName) }
}

func WithMaxTokens(n int) Option {
	return func(r *Runner) { r.maxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(r *Runner) { r.temperature = t }
}

func New(model provider.LanguageModel, toolDefs []tools.ToolDefinition, opts ...Option) *Runner {
	r := &Runner{
		Model:  model,
		Tools:  toolDefs,
		out:    io.Discard,
		logger: slog.Default(),
		tracer: otel.Tracer(telemetry.TracerName),
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = r.logger.With(slog.String("component", "runner"))
	return r
}

// Step is the outcome of one model round trip.
type Step struct {
	Assistant prompt.Message
	// Results answers every tool call of Assistant; nil when there were none.
	Results      *prompt.Message
	FinishReason provider.FinishReason
	Usage        provider.Usage
}

// Messages returns the messages the step appends to the history.
func (s *Step) Messages() []prompt.Message {
	if s.Results == nil {
		return []prompt.Message{s.Assistant}
	}
	return []prompt.Message{s.Assistant, *s.Results}
}

// Run steps the model until it stops asking for tools or maxSteps is reached.
// It returns history extended with every completed step. On error the
// history holds the steps completed before the failure.
func (r *Runner) Run(ctx context.Context, history []prompt.Message, maxSteps int) ([]prompt.Message, error) {
	ctx, callID := telemetry.EnsureCallID(ctx)
	ctx, span := r.tracer.Start(ctx, "conversation.run", trace.WithAttributes(
		attribute.String("call_id", callID),
		attribute.Int("max_steps", maxSteps),
	))
	defer span.End()

	r.events.EmitRequestFeatures(ctx, prompt.LatestUserText(history))

	for i := 0; i < maxSteps; i++ {
		step, err := r.RunOneStep(ctx, history)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "step failed")
			return history, err
		}
		history = append(history, step.Messages()...)
		if step.Results == nil {
			span.SetAttributes(attribute.Int("steps", i+1))
			return history, nil
		}
	}
	r.logger.Warn("step limit reached", slog.Int("max_steps", maxSteps))
	span.SetAttributes(attribute.Int("steps", maxSteps), attribute.Bool("step_limit", true))
	return history, nil
}

// RunOneStep streams one model step, writing text to the output as it
// arrives, and executes the requested tools.
func (r *Runner) RunOneStep(ctx context.Context, history []prompt.Message) (*Step, error) {
	ctx, callID := telemetry.EnsureCallID(ctx)
	turn := prompt.CountToolMessages(history)
	ctx, span := r.tracer.Start(ctx, "model.step", trace.WithAttributes(
		attribute.String("provider", r.Model.Provider()),
		attribute.String("model", r.Model.ModelID()),
		attribute.Int("turn", turn),
	))
	defer span.End()

	start := time.Now()
	stream, err := r.Model.Stream(ctx, provider.CallOptions{
		Prompt:      history,
		Tools:       tools.Specs(r.Tools),
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stream open failed")
		return nil, fmt.Errorf("runner: open stream: %w", err)
	}

	var (
		text   strings.Builder
		calls  []provider.ToolCall
		finish provider.Finish
	)
	for part, err := range stream.Parts {
		if err != nil {
			r.endText(text.Len() > 0)
			span.RecordError(err)
			span.SetStatus(codes.Error, "stream failed")
			return nil, fmt.Errorf("runner: stream: %w", err)
		}
		switch v := part.(type) {
		case provider.TextDelta:
			if text.Len() == 0 && r.label != "" {
				io.WriteString(r.out, r.label)
			}
			text.WriteString(v.Text)
			io.WriteString(r.out, v.Text)
		case provider.ToolCall:
			calls = append(calls, v)
		case provider.Finish:
			finish = v
		}
	}
	r.endText(text.Len() > 0)
	if finish.Reason == "" {
		finish.Reason = provider.FinishStop
	}

	parts := make([]prompt.Part, 0, len(calls)+1)
	if text.Len() > 0 {
		parts = append(parts, prompt.TextPart{Text: text.String()})
	}
	for _, c := range calls {
		parts = append(parts, prompt.ToolCallPart{ID: c.ID, Name: c.Name, Args: c.Args})
	}
	step := &Step{
		Assistant:    prompt.AssistantParts(parts...),
		FinishReason: finish.Reason,
		Usage:        finish.Usage,
	}

	if len(calls) > 0 {
		results := make([]prompt.ToolResultPart, 0, len(calls))
		for _, c := range calls {
			results = append(results, r.execTool(ctx, c))
		}
		msg := prompt.ToolResults(results...)
		step.Results = &msg
	}

	span.SetAttributes(
		attribute.String("finish_reason", string(finish.Reason)),
		attribute.Int("tool_calls", len(calls)),
	)
	r.events.Emit("step_complete", map[string]any{
		"call_id":           callID,
		"provider":          r.Model.Provider(),
		"model":             r.Model.ModelID(),
		"turn":              turn,
		"finish_reason":     string(finish.Reason),
		"text_runes":        utf8.RuneCountInString(text.String()),
		"tool_calls":        len(calls),
		"prompt_tokens":     finish.Usage.PromptTokens,
		"completion_tokens": finish.Usage.CompletionTokens,
		"duration_ms":       time.Since(start).Milliseconds(),
	})
	r.logger.Debug("step complete",
		slog.Int("turn", turn),
		slog.String("finish_reason", string(finish.Reason)),
		slog.Int("tool_calls", len(calls)),
	)
	return step, nil
}

func (r *Runner) endText(printed bool) {
	if printed {
		io.WriteString(r.out, "\n")
	}
}

// execTool runs one call. Failures become error results for the model and
// never abort the step.
func (r *Runner) execTool(ctx context.Context, call provider.ToolCall) prompt.ToolResultPart {
	_, span := r.tracer.Start(ctx, "tool.exec", trace.WithAttributes(attribute.String("tool_name", call.Name)))
	defer span.End()

	callID, _ := telemetry.CallIDFromContext(ctx)
	emit := func(duration time.Duration, outputSize int, errStr string) {
		fields := map[string]any{
			"call_id":     callID,
			"tool_name":   call.Name,
			"duration_ms": duration.Milliseconds(),
			"input_size":  len(call.Args),
			"output_size": outputSize,
			"error":       nil,
		}
		if errStr != "" {
			fields["error"] = errStr
		}
		r.events.Emit("tool_exec", fields)
	}

	result := prompt.ToolResultPart{ToolCallID: call.ID, ToolName: call.Name}
	start := time.Now()

	def := tools.Find(r.Tools, call.Name)
	if def == nil {
		emit(time.Since(start), 0, "tool not found")
		span.SetStatus(codes.Error, "tool not found")
		result.Result, result.IsError = "tool not found", true
		return result
	}

	out, err := def.Function([]byte(call.Args))
	if err != nil {
		// Telemetry gets a generic marker; the model gets the detailed message.
		emit(time.Since(start), 0, "tool error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "tool error")
		r.logger.Debug("tool error", slog.String("tool", call.Name), slog.Any("error", err))
		result.Result, result.IsError = err.Error(), true
		return result
	}
	emit(time.Since(start), len(out), "")
	result.Result = out
	return result
}
