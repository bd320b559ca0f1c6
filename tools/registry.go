package tools

// Registry returns all tool definitions wired for the chat command.
func Registry() []ToolDefinition {
	return []ToolDefinition{ReadFileDefinition, ListFilesDefinition, EditFileDefinition, ShellDefinition}
}
