// Package provider defines the language model contract shared by the real
// Anthropic backend and the scripted mock.
//
// A model answers one step of a conversation either in blocking mode
// (Generate) or incrementally (Stream). Both modes carry the same information:
// Generate is the reassembly of the parts Stream would yield.
package provider

import (
	"context"
	"iter"

	"github.com/invopop/jsonschema"

	"github.com/petasbytes/uigen/internal/prompt"
)

// LanguageModel is implemented by every backend.
type LanguageModel interface {
	Provider() string
	ModelID() string
	Generate(ctx context.Context, opts CallOptions) (*GenerateResult, error)
	Stream(ctx context.Context, opts CallOptions) (*StreamResult, error)
}

// ToolSpec describes a tool the model may call.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// CallOptions is the normalized request for one model step.
type CallOptions struct {
	Prompt      []prompt.Message
	Tools       []ToolSpec
	MaxTokens   int
	Temperature float64
}

// RawCall echoes what was sent to the backend.
type RawCall struct {
	Prompt      []prompt.Message
	MaxTokens   int
	Temperature float64
}

// RawCallFrom copies the request settings of opts.
func RawCallFrom(opts CallOptions) RawCall {
	return RawCall{Prompt: opts.Prompt, MaxTokens: opts.MaxTokens, Temperature: opts.Temperature}
}

// FinishReason tells the caller why a step ended.
type FinishReason string

const (
	// FinishStop means the conversation turn is complete.
	FinishStop FinishReason = "stop"
	// FinishToolCalls means the model expects tool results before continuing.
	FinishToolCalls FinishReason = "tool-calls"
	FinishLength    FinishReason = "length"
	FinishOther     FinishReason = "other"
)

// Usage counts the tokens of one step.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// ToolCall is a tool invocation emitted by the model. Args is a JSON object.
type ToolCall struct {
	ID   string
	Name string
	Args string
}

// StreamPart is one of TextDelta, ToolCall or Finish.
type StreamPart interface {
	isStreamPart()
}

// TextDelta is a fragment of assistant text.
type TextDelta struct {
	Text string
}

// Finish is always the last part of a complete step.
type Finish struct {
	Reason FinishReason
	Usage  Usage
}

func (TextDelta) isStreamPart() {}
func (ToolCall) isStreamPart()  {}
func (Finish) isStreamPart()    {}

// GenerateResult is the blocking-mode answer.
type GenerateResult struct {
	Text         string
	ToolCalls    []ToolCall
	FinishReason FinishReason
	Usage        Usage
	RawCall      RawCall
}

// StreamResult carries the incremental answer. Parts is single-use; breaking
// out of the range loop stops the producer.
type StreamResult struct {
	Parts   iter.Seq2[StreamPart, error]
	RawCall RawCall
}
