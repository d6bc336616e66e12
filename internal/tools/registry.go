package tools

import (
	"context"
	"fmt"
)

// ToolHandler is the interface for tool implementations.
type ToolHandler interface {
	// Name returns the tool's name.
	Name() string

	// Kind returns the tool handler kind.
	Kind() ToolKind

	// IsMutating returns whether this invocation may modify the
	// filesystem. Read-only tools may run while an edit is in flight.
	IsMutating(invocation *ToolInvocation) bool

	// Handle executes the tool with the given invocation context.
	Handle(ctx context.Context, invocation *ToolInvocation) (*ToolOutput, error)
}

// ToolRegistry stores tool handlers by name.
type ToolRegistry struct {
	handlers map[string]ToolHandler
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		handlers: make(map[string]ToolHandler),
	}
}

// Register registers a tool handler.
func (r *ToolRegistry) Register(handler ToolHandler) {
	r.handlers[handler.Name()] = handler
}

// GetHandler returns a tool handler by name.
func (r *ToolRegistry) GetHandler(name string) (ToolHandler, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return handler, nil
}

// HasTool checks if a tool is registered.
func (r *ToolRegistry) HasTool(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// ToolCount returns the number of registered tools.
func (r *ToolRegistry) ToolCount() int {
	return len(r.handlers)
}
