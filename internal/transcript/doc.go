// Package transcript inspects conversation history.
//
// Invariant checked here:
//   - an assistant message carrying tool_use blocks is immediately followed
//     by a user message whose leading blocks are the matching tool_results.
//
// Flow:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> assistant(text)
package transcript
