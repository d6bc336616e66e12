package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

// WriteFileTool replaces a file's content wholesale. Existing files
// are overwritten; use patch_file for partial edits.
type WriteFileTool struct {
	guard *pathguard.Guard
}

// NewWriteFileTool creates a new write_file tool handler.
func NewWriteFileTool(guard *pathguard.Guard) *WriteFileTool {
	return &WriteFileTool{guard: guard}
}

// Name returns the tool's name.
func (t *WriteFileTool) Name() string {
	return "write_file"
}

// Kind returns ToolKindFunction.
func (t *WriteFileTool) Kind() tools.ToolKind {
	return tools.ToolKindFunction
}

// IsMutating returns true - writing always modifies the filesystem.
func (t *WriteFileTool) IsMutating(invocation *tools.ToolInvocation) bool {
	return true
}

// Handle writes the full content to the resolved path.
func (t *WriteFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, content, createDirs, err := writeArgs(invocation, true)
	if err != nil {
		return nil, err
	}

	path, err := t.guard.Resolve(relPath)
	if err != nil {
		return failure(err.Error()), nil
	}

	if createDirs {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return failure(fmt.Sprintf("Failed to create parent directories: %v", err)), nil
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return failure(fmt.Sprintf("Failed to write file: %v", err)), nil
	}

	return textOutput(fmt.Sprintf("Wrote %d bytes to %s", len(content), relPath)), nil
}

// CreateFileTool creates a new file, refusing to clobber an existing one.
type CreateFileTool struct {
	guard *pathguard.Guard
}

// NewCreateFileTool creates a new create_file tool handler.
func NewCreateFileTool(guard *pathguard.Guard) *CreateFileTool {
	return &CreateFileTool{guard: guard}
}

// Name returns the tool's name.
func (t *CreateFileTool) Name() string {
	return "create_file"
}

// Kind returns ToolKindFunction.
func (t *CreateFileTool) Kind() tools.ToolKind {
	return tools.ToolKindFunction
}

// IsMutating returns true - creating files modifies the filesystem.
func (t *CreateFileTool) IsMutating(invocation *tools.ToolInvocation) bool {
	return true
}

// Handle creates the file with O_EXCL semantics.
func (t *CreateFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, content, createDirs, err := writeArgs(invocation, false)
	if err != nil {
		return nil, err
	}

	path, err := t.guard.Resolve(relPath)
	if err != nil {
		return failure(err.Error()), nil
	}

	if createDirs {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return failure(fmt.Sprintf("Failed to create parent directories: %v", err)), nil
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return failure(fmt.Sprintf("Failed to create file: %v", err)), nil
	}
	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr != nil {
		return failure(fmt.Sprintf("Failed to write file: %v", werr)), nil
	}
	if cerr != nil {
		return failure(fmt.Sprintf("Failed to close file: %v", cerr)), nil
	}

	return textOutput(fmt.Sprintf("Created %s (%d bytes)", relPath, len(content))), nil
}

func writeArgs(invocation *tools.ToolInvocation, requireContent bool) (path, content string, createDirs bool, err error) {
	path, err = invocation.StringArg("path")
	if err != nil {
		return "", "", false, err
	}
	if path == "" {
		return "", "", false, tools.NewValidationError("path cannot be empty")
	}
	if requireContent {
		content, err = invocation.StringArg("content")
	} else {
		content, err = invocation.OptionalStringArg("content", "")
	}
	if err != nil {
		return "", "", false, err
	}
	createDirs, err = invocation.OptionalBoolArg("create_dirs", false)
	if err != nil {
		return "", "", false, err
	}
	return path, content, createDirs, nil
}

func init() {
	tools.RegisterSpec(tools.SpecEntry{Name: "write_file", Constructor: tools.NewWriteFileToolSpec})
	tools.RegisterSpec(tools.SpecEntry{Name: "create_file", Constructor: tools.NewCreateFileToolSpec})
}
