package handlers

import (
	"context"
	"fmt"

	"github.com/filepatch/filepatch/internal/fsops"
	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

// ListFilesTool lists directory entries with optional glob filtering
// and recursion.
type ListFilesTool struct {
	guard *pathguard.Guard
}

// NewListFilesTool creates a new list_files tool handler.
func NewListFilesTool(guard *pathguard.Guard) *ListFilesTool {
	return &ListFilesTool{guard: guard}
}

// Name returns the tool's name.
func (t *ListFilesTool) Name() string { return "list_files" }

// Kind returns ToolKindFunction.
func (t *ListFilesTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

// IsMutating returns false - listing doesn't modify the filesystem.
func (t *ListFilesTool) IsMutating(invocation *tools.ToolInvocation) bool { return false }

// Handle lists entries under the resolved directory.
func (t *ListFilesTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, err := invocation.OptionalStringArg("path", ".")
	if err != nil {
		return nil, err
	}
	pattern, err := invocation.OptionalStringArg("pattern", "*")
	if err != nil {
		return nil, err
	}
	recursive, err := invocation.OptionalBoolArg("recursive", false)
	if err != nil {
		return nil, err
	}
	includeHidden, err := invocation.OptionalBoolArg("include_hidden", false)
	if err != nil {
		return nil, err
	}

	dir, err := t.guard.Resolve(relPath)
	if err != nil {
		return failure(err.Error()), nil
	}

	entries, err := fsops.List(t.guard.Root(), dir, pattern, recursive, includeHidden)
	if err != nil {
		return failure(fmt.Sprintf("Failed to list directory: %v", err)), nil
	}
	return jsonOutput(entries), nil
}

func init() {
	tools.RegisterSpec(tools.SpecEntry{Name: "list_files", Constructor: tools.NewListFilesToolSpec})
}
