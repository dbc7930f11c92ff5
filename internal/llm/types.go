// Package llm provides the language model gateway.
package llm

import "log/slog"

// LevelTrace is below Debug, used for wire-level payload logging.
const LevelTrace = slog.Level(-8)

// Message represents one turn in a model conversation.
type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // For tool responses
}

// ToolCall represents a tool invocation requested by the model.
type ToolCall struct {
	// ID is the provider-assigned block id, required for tool_result
	// correlation.
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Tool declares a callable tool to the model.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// StopReason classifies why a completion ended.
type StopReason string

const (
	// StopEndTurn means the model finished its reply naturally.
	StopEndTurn StopReason = "end_turn"

	// StopToolUse means the model is requesting tool execution.
	StopToolUse StopReason = "tool_use"

	// StopMaxTokens means the reply was truncated at the token budget.
	StopMaxTokens StopReason = "max_tokens"

	// StopOther covers provider-specific reasons (stop sequences etc).
	StopOther StopReason = "other"
)

// ChatRequest describes one completion call. System messages in Messages
// are extracted into the provider's system prompt slot.
type ChatRequest struct {
	Model     string
	Messages  []Message
	Tools     []Tool
	MaxTokens int

	// ToolChoice forces tool selection when set. "any" requires the model
	// to call some tool; empty leaves the choice to the model.
	ToolChoice string
}

// ChatResponse is the final message of a completion, streamed or not.
type ChatResponse struct {
	Model      string
	Message    Message
	StopReason StopReason

	InputTokens  int
	OutputTokens int
}

// StreamCallback receives incremental text deltas while the model is
// composing its reply. Tool invocations are not streamed; they arrive on
// the final ChatResponse.
type StreamCallback func(token string)
