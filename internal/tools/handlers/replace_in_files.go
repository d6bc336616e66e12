package handlers

import (
	"context"
	"fmt"
	"regexp"

	"github.com/filepatch/filepatch/internal/fsops"
	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

// ReplaceInFilesTool performs a regex replace-all across a file tree.
// Unlike patch_file it has no ambiguity protection; it is the blunt
// instrument for mechanical renames.
type ReplaceInFilesTool struct {
	guard *pathguard.Guard
}

// NewReplaceInFilesTool creates a new replace_in_files tool handler.
func NewReplaceInFilesTool(guard *pathguard.Guard) *ReplaceInFilesTool {
	return &ReplaceInFilesTool{guard: guard}
}

// Name returns the tool's name.
func (t *ReplaceInFilesTool) Name() string { return "replace_in_files" }

// Kind returns ToolKindFunction.
func (t *ReplaceInFilesTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

// IsMutating returns true unless the invocation is a dry run.
func (t *ReplaceInFilesTool) IsMutating(invocation *tools.ToolInvocation) bool {
	dryRun, _ := invocation.OptionalBoolArg("dry_run", false)
	return !dryRun
}

// Handle replaces matches in every text file under the resolved directory.
func (t *ReplaceInFilesTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, err := invocation.OptionalStringArg("path", ".")
	if err != nil {
		return nil, err
	}
	pattern, err := invocation.OptionalStringArg("pattern", "*")
	if err != nil {
		return nil, err
	}
	find, err := invocation.StringArg("find")
	if err != nil {
		return nil, err
	}
	replace, err := invocation.OptionalStringArg("replace", "")
	if err != nil {
		return nil, err
	}
	dryRun, err := invocation.OptionalBoolArg("dry_run", false)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(find)
	if err != nil {
		return nil, tools.NewValidationErrorf("invalid find pattern: %v", err)
	}

	dir, err := t.guard.Resolve(relPath)
	if err != nil {
		return failure(err.Error()), nil
	}

	results, err := fsops.Replace(t.guard.Root(), dir, pattern, re, replace, dryRun)
	if err != nil {
		return failure(fmt.Sprintf("Replace failed: %v", err)), nil
	}
	return jsonOutput(results), nil
}

func init() {
	tools.RegisterSpec(tools.SpecEntry{Name: "replace_in_files", Constructor: tools.NewReplaceInFilesToolSpec})
}
