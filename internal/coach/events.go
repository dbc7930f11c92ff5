package coach

// Event is one frame of a streamed coaching reply.
type Event struct {
	Type    string `json:"type"` // text, tool_update, done, error
	Text    string `json:"text,omitempty"`
	Tool    string `json:"tool,omitempty"`
	Summary string `json:"summary,omitempty"`
	Message string `json:"message,omitempty"`
}

// EmitFunc delivers events to the transport (SSE, websocket, or a
// buffer for the CLI).
type EmitFunc func(Event)

// TextEvent wraps a text delta.
func TextEvent(text string) Event {
	return Event{Type: "text", Text: text}
}

// ToolEvent announces a completed tool execution.
func ToolEvent(tool, summary string) Event {
	return Event{Type: "tool_update", Tool: tool, Summary: summary}
}

// DoneEvent terminates the stream.
func DoneEvent() Event {
	return Event{Type: "done"}
}

// ErrorEvent reports a mid-stream failure before the stream closes.
func ErrorEvent(message string) Event {
	return Event{Type: "error", Message: message}
}
