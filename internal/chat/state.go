package chat

// State is the position of a Chat in its request cycle.
type State int

const (
	Idle State = iota
	AwaitingResponse
	ProcessingContent
	AwaitingToolResult
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingResponse:
		return "awaiting_response"
	case ProcessingContent:
		return "processing_content"
	case AwaitingToolResult:
		return "awaiting_tool_result"
	}
	return "unknown"
}
