// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, parameter schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Adapt: rename "parameters" to "input_schema" for the Messages API.
//   - Dispatcher: name -> handler lookup used by the chat loop.
//   - Tools: read_file, list_files (non-recursive), edit_file, shell.
package tools
