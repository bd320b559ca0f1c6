// Package chat runs a tool-calling conversation against the Anthropic
// Messages API.
//
// A Chat owns its history. Submit appends the user query, asks the model for
// a response and works through the returned content blocks:
//
//	user(text) -> assistant(tool_use) -> user(tool_result) -> assistant(text)
//
// Invariant:
//   - each assistant(tool_use) appended by the loop is immediately followed by
//     user(tool_result) carrying the same id, unless the turn stops early.
//
// A Chat is not safe for concurrent use; callers serialize access.
package chat
