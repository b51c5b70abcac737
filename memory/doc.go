// Package memory persists conversations between runs.
//
// Persistence model:
//   - The whole history is stored, tool calls and tool results included, so a
//     resumed session continues at the same step.
//   - A missing file is an empty conversation.
package memory
