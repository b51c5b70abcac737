// Package runner drives the conversation loop between a language model and
// the workspace tools.
//
// Invariant:
//   - an assistant message with tool calls is always followed by exactly one
//     tool message answering every call, so histories stay pair-safe.
//
// Flow:
//
//	user(text) -> assistant(text, tool calls) -> tool(results) -> ... -> assistant(text)
package runner
