package llm

import "context"

// Client is the interface the rest of fitcoach programs against.
type Client interface {
	// Chat sends a chat completion request and returns the final message.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// ChatStream sends a streaming chat request. If callback is non-nil,
	// text deltas are forwarded to it as they arrive.
	ChatStream(ctx context.Context, req *ChatRequest, callback StreamCallback) (*ChatResponse, error)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
