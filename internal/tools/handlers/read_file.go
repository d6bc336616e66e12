package handlers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

// ReadFileTool reads file contents with optional offset/limit.
type ReadFileTool struct {
	guard *pathguard.Guard
}

// NewReadFileTool creates a new read file tool handler.
func NewReadFileTool(guard *pathguard.Guard) *ReadFileTool {
	return &ReadFileTool{guard: guard}
}

// Name returns the tool's name.
func (t *ReadFileTool) Name() string {
	return "read_file"
}

// Kind returns ToolKindFunction.
func (t *ReadFileTool) Kind() tools.ToolKind {
	return tools.ToolKindFunction
}

// IsMutating returns false - reading files doesn't modify the filesystem.
func (t *ReadFileTool) IsMutating(invocation *tools.ToolInvocation) bool {
	return false
}

// Handle reads a file and returns its contents with line numbers.
func (t *ReadFileTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, err := invocation.StringArg("path")
	if err != nil {
		return nil, err
	}
	if relPath == "" {
		return nil, tools.NewValidationError("path cannot be empty")
	}

	offset, err := invocation.OptionalIntArg("offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := invocation.OptionalIntArg("limit", -1)
	if err != nil {
		return nil, err
	}

	path, err := t.guard.Resolve(relPath)
	if err != nil {
		return failure(err.Error()), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return failure(fmt.Sprintf("Failed to open file: %v", err)), nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var result strings.Builder
	lineNum := 0
	linesRead := 0

	for lineNum < offset && scanner.Scan() {
		lineNum++
	}

	for scanner.Scan() {
		if limit > 0 && linesRead >= limit {
			break
		}

		line := scanner.Text()
		if len(line) > 2000 {
			line = line[:2000] + "... (truncated)"
		}

		result.WriteString(fmt.Sprintf("%6d\t%s\n", lineNum+1, line))
		lineNum++
		linesRead++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	content := result.String()
	if content == "" {
		if offset > 0 {
			content = fmt.Sprintf("(file has fewer than %d lines)", offset)
		} else {
			content = "(empty file)"
		}
	}

	// Add file path header so the client knows which file this content
	// belongs to during multi-tool turns.
	content = fmt.Sprintf("File: %s\n%s", relPath, content)

	return textOutput(content), nil
}

func init() {
	tools.RegisterSpec(tools.SpecEntry{Name: "read_file", Constructor: tools.NewReadFileToolSpec})
}
