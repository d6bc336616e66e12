package handlers

import (
	"context"
	"fmt"
	"regexp"

	"github.com/filepatch/filepatch/internal/fsops"
	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/tools"
)

// SearchFilesTool finds files by name glob and, optionally, by a
// per-line content regex.
type SearchFilesTool struct {
	guard *pathguard.Guard
}

// NewSearchFilesTool creates a new search_files tool handler.
func NewSearchFilesTool(guard *pathguard.Guard) *SearchFilesTool {
	return &SearchFilesTool{guard: guard}
}

// Name returns the tool's name.
func (t *SearchFilesTool) Name() string { return "search_files" }

// Kind returns ToolKindFunction.
func (t *SearchFilesTool) Kind() tools.ToolKind { return tools.ToolKindFunction }

// IsMutating returns false - searching doesn't modify the filesystem.
func (t *SearchFilesTool) IsMutating(invocation *tools.ToolInvocation) bool { return false }

// Handle walks the resolved directory collecting matches.
func (t *SearchFilesTool) Handle(_ context.Context, invocation *tools.ToolInvocation) (*tools.ToolOutput, error) {
	relPath, err := invocation.OptionalStringArg("path", ".")
	if err != nil {
		return nil, err
	}
	pattern, err := invocation.OptionalStringArg("pattern", "*")
	if err != nil {
		return nil, err
	}
	content, err := invocation.OptionalStringArg("content", "")
	if err != nil {
		return nil, err
	}
	maxDepth, err := invocation.OptionalIntArg("max_depth", 0)
	if err != nil {
		return nil, err
	}

	var contentRe *regexp.Regexp
	if content != "" {
		contentRe, err = regexp.Compile(content)
		if err != nil {
			return nil, tools.NewValidationErrorf("invalid content pattern: %v", err)
		}
	}

	dir, err := t.guard.Resolve(relPath)
	if err != nil {
		return failure(err.Error()), nil
	}

	matches, err := fsops.Search(t.guard.Root(), dir, pattern, contentRe, maxDepth)
	if err != nil {
		return failure(fmt.Sprintf("Search failed: %v", err)), nil
	}
	return jsonOutput(matches), nil
}

func init() {
	tools.RegisterSpec(tools.SpecEntry{Name: "search_files", Constructor: tools.NewSearchFilesToolSpec})
}
