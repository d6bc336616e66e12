package handlers

import (
	"context"
	"fmt"

	"github.com/filepatch/filepatch/internal/fsops"
	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

// DeleteFileTool removes a file or directory.
type DeleteFileTool struct {
	guard *pathguard.Guard
}

// NewDeleteFileTool creates a new delete_file tool handler.
func NewDeleteFileTool(guard *pathguard.Guard) *DeleteFileTool {
	return &DeleteFileTool{guard: guard}
}

// Name returns the tool's name.
func (t *DeleteFileTool) Name() string { return "delete_file" }

// Kind returns ToolKindFunction.
func (t *DeleteFileTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

// IsMutating returns true - deletion modifies the filesystem.
func (t *DeleteFileTool) IsMutating(invocation *tools.ToolInvocation) bool { return true }

// Handle deletes the resolved path.
func (t *DeleteFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, err := invocation.StringArg("path")
	if err != nil {
		return nil, err
	}
	recursive, err := invocation.OptionalBoolArg("recursive", false)
	if err != nil {
		return nil, err
	}

	path, err := t.guard.Resolve(relPath)
	if err != nil {
		return failure(err.Error()), nil
	}
	if path == t.guard.Root() {
		return nil, tools.NewValidationError("refusing to delete the served root")
	}
	if err := fsops.Delete(path, recursive); err != nil {
		return failure(fmt.Sprintf("Failed to delete: %v", err)), nil
	}
	return textOutput(fmt.Sprintf("Deleted %s", relPath)), nil
}

// MoveFileTool renames a file within the served root.
type MoveFileTool struct {
	guard *pathguard.Guard
}

// NewMoveFileTool creates a new move_file tool handler.
func NewMoveFileTool(guard *pathguard.Guard) *MoveFileTool {
	return &MoveFileTool{guard: guard}
}

// Name returns the tool's name.
func (t *MoveFileTool) Name() string { return "move_file" }

// Kind returns ToolKindFunction.
func (t *MoveFileTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

// IsMutating returns true - moving modifies the filesystem.
func (t *MoveFileTool) IsMutating(invocation *tools.ToolInvocation) bool { return true }

// Handle moves source to destination, both guard-resolved.
func (t *MoveFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	src, dst, err := sourceDestArgs(t.guard, invocation)
	if err != nil {
		return nil, err
	}
	if src.abs == "" {
		return failure(src.err), nil
	}
	if dst.abs == "" {
		return failure(dst.err), nil
	}
	if err := fsops.Move(src.abs, dst.abs); err != nil {
		return failure(fmt.Sprintf("Failed to move: %v", err)), nil
	}
	return textOutput(fmt.Sprintf("Moved %s to %s", src.rel, dst.rel)), nil
}

// CopyFileTool copies a file within the served root.
type CopyFileTool struct {
	guard *pathguard.Guard
}

// NewCopyFileTool creates a new copy_file tool handler.
func NewCopyFileTool(guard *pathguard.Guard) *CopyFileTool {
	return &CopyFileTool{guard: guard}
}

// Name returns the tool's name.
func (t *CopyFileTool) Name() string { return "copy_file" }

// Kind returns ToolKindFunction.
func (t *CopyFileTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

// IsMutating returns true - copying modifies the filesystem.
func (t *CopyFileTool) IsMutating(invocation *tools.ToolInvocation) bool { return true }

// Handle copies source to destination, both guard-resolved.
func (t *CopyFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	src, dst, err := sourceDestArgs(t.guard, invocation)
	if err != nil {
		return nil, err
	}
	if src.abs == "" {
		return failure(src.err), nil
	}
	if dst.abs == "" {
		return failure(dst.err), nil
	}
	if err := fsops.Copy(src.abs, dst.abs); err != nil {
		return failure(fmt.Sprintf("Failed to copy: %v", err)), nil
	}
	return textOutput(fmt.Sprintf("Copied %s to %s", src.rel, dst.rel)), nil
}

type resolvedArg struct {
	rel string
	abs string
	err string
}

func sourceDestArgs(guard *pathguard.Guard, invocation *tools.ToolInvocation) (src, dst resolvedArg, err error) {
	srcRel, err := invocation.StringArg("source")
	if err != nil {
		return resolvedArg{}, resolvedArg{}, err
	}
	dstRel, err := invocation.StringArg("destination")
	if err != nil {
		return resolvedArg{}, resolvedArg{}, err
	}

	src = resolvedArg{rel: srcRel}
	if abs, rerr := guard.Resolve(srcRel); rerr != nil {
		src.err = rerr.Error()
	} else {
		src.abs = abs
	}
	dst = resolvedArg{rel: dstRel}
	if abs, rerr := guard.Resolve(dstRel); rerr != nil {
		dst.err = rerr.Error()
	} else {
		dst.abs = abs
	}
	return src, dst, nil
}

func init() {
	tools.RegisterSpec(tools.SpecEntry{Name: "delete_file", Constructor: tools.NewDeleteFileToolSpec})
	tools.RegisterSpec(tools.SpecEntry{Name: "move_file", Constructor: tools.NewMoveFileToolSpec})
	tools.RegisterSpec(tools.SpecEntry{Name: "copy_file", Constructor: tools.NewCopyFileToolSpec})
}
