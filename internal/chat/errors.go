package chat

import "errors"

var (
	// ErrEmptyQuery is returned by Submit for an empty or blank query.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrGenerationUnavailable is returned when every generation attempt failed.
	ErrGenerationUnavailable = errors.New("generation unavailable")
	// ErrNoToolProvider is returned when the model calls a tool but the Chat
	// was built without a ToolProvider.
	ErrNoToolProvider = errors.New("no tool provider configured")
	// ErrNoFinalText is returned when the responses run out without a
	// closing text block.
	ErrNoFinalText = errors.New("response ended without text")
)
