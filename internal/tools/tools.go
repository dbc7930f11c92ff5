// Package tools defines the tools available to the coach.
package tools

import (
	"context"
	"fmt"

	"github.com/dmaclachlan/fitcoach/internal/llm"
)

// Tool represents a callable tool.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
	Handler     func(ctx context.Context, userID string, args map[string]any) (string, error) `json:"-"`
	Summarize   func(args map[string]any) string `json:"-"`
}

// Result is the outcome of one tool dispatch: the text fed back to the
// model and a short human-readable summary for the UI.
type Result struct {
	Tool    string
	Result  string
	Summary string
}

// Registry holds available tools in registration order.
type Registry struct {
	tools map[string]*Tool
	order []string
	store Store
}

// NewRegistry creates a tool registry wired to the profile store.
func NewRegistry(store Store) *Registry {
	r := &Registry{
		tools: make(map[string]*Tool),
		store: store,
	}
	r.registerBuiltins()
	return r
}

// Register adds a tool to the registry.
func (r *Registry) Register(t *Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Declarations returns the tool definitions in the wire format the
// model expects, in registration order.
func (r *Registry) Declarations() []llm.Tool {
	decls := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		decls = append(decls, llm.Tool{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.Parameters,
		})
	}
	return decls
}

// Dispatch executes one tool call. Failures never propagate as errors:
// an unknown tool or a handler failure produces a Result the model can
// read and recover from.
func (r *Registry) Dispatch(ctx context.Context, userID string, call llm.ToolCall) Result {
	t, ok := r.tools[call.Name]
	if !ok {
		return Result{
			Tool:    call.Name,
			Result:  "Unknown tool",
			Summary: fmt.Sprintf("Unknown tool: %s", call.Name),
		}
	}

	out, err := t.Handler(ctx, userID, call.Arguments)
	if err != nil {
		return Result{
			Tool:    call.Name,
			Result:  fmt.Sprintf("Tool execution failed: %v", err),
			Summary: fmt.Sprintf("Tool %s failed", call.Name),
		}
	}

	summary := call.Name
	if t.Summarize != nil {
		summary = t.Summarize(call.Arguments)
	}
	return Result{Tool: call.Name, Result: out, Summary: summary}
}
