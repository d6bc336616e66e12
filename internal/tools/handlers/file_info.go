package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/filepatch/filepatch/internal/fsops"
	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

// FileInfoTool reports metadata for one path.
type FileInfoTool struct {
	guard *pathguard.Guard
}

// NewFileInfoTool creates a new file_info tool handler.
func NewFileInfoTool(guard *pathguard.Guard) *FileInfoTool {
	return &FileInfoTool{guard: guard}
}

// Name returns the tool's name.
func (t *FileInfoTool) Name() string { return "file_info" }

// Kind returns ToolKindFunction.
func (t *FileInfoTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

// IsMutating returns false - stat doesn't modify the filesystem.
func (t *FileInfoTool) IsMutating(invocation *tools.ToolInvocation) bool { return false }

// Handle stats the resolved path.
func (t *FileInfoTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, err := invocation.StringArg("path")
	if err != nil {
		return nil, err
	}

	path, err := t.guard.Resolve(relPath)
	if err != nil {
		return failure(err.Error()), nil
	}

	rel, err := filepath.Rel(t.guard.Root(), path)
	if err != nil {
		rel = relPath
	}
	info, err := fsops.Stat(path, rel)
	if err != nil {
		return failure(fmt.Sprintf("Failed to stat: %v", err)), nil
	}
	return jsonOutput(info), nil
}

func init() {
	tools.RegisterSpec(tools.SpecEntry{Name: "file_info", Constructor: tools.NewFileInfoToolSpec})
}
