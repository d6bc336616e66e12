package tools

// ToolSpec defines the specification for a tool as surfaced to the
// protocol layer.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`
}

// ToolParameter defines a parameter for a tool. Items describes the
// element schema for array parameters.
type ToolParameter struct {
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Required    bool                   `json:"required"`
	Items       map[string]interface{} `json:"items,omitempty"`
}

// InputSchema renders the spec as a JSON-Schema object suitable for
// MCP tool registration.
func (s ToolSpec) InputSchema() map[string]interface{} {
	properties := make(map[string]interface{}, len(s.Parameters))
	var required []string
	for _, p := range s.Parameters {
		prop := map[string]interface{}{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Items != nil {
			prop["items"] = p.Items
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// patchItemSchema describes one element of the patches array accepted
// by patch_file. The three addressing schemes are mutually exclusive
// per element.
func patchItemSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"line": map[string]interface{}{
				"type":        "integer",
				"description": "1-based line number to replace (line patch)",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Replacement text for the addressed line (line patch)",
			},
			"find": map[string]interface{}{
				"type":        "string",
				"description": "Go regular expression to match (pattern patch)",
			},
			"replace": map[string]interface{}{
				"type":        "string",
				"description": "Replacement text; $1-style groups are expanded (pattern patch)",
			},
			"context": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Contiguous lines that must match exactly (context patch)",
			},
			"replacement": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Lines replacing the matched block (context patch)",
			},
			"occurrence": map[string]interface{}{
				"type":        "integer",
				"description": "1-based ordinal selecting among multiple matches",
			},
		},
	}
}

// NewPatchFileToolSpec creates the specification for the patch_file tool.
func NewPatchFileToolSpec() ToolSpec {
	return ToolSpec{
		Name: "patch_file",
		Description: "Apply an ordered list of patches to a text file. Each patch is line-based " +
			"(line + content), pattern-based (find + replace), or context-based (context + replacement). " +
			"Patches apply in order against one buffer; the request is atomic. " +
			"Set dry_run to preview the result as a unified diff without writing.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "File to patch, relative to the served root", Required: true},
			{Name: "patches", Type: "array", Description: "Ordered patch list", Required: true, Items: patchItemSchema()},
			{Name: "dry_run", Type: "boolean", Description: "Preview without writing (default false)"},
			{Name: "create_backup", Type: "boolean", Description: "Snapshot the file before writing (default false)"},
		},
	}
}

// NewReadFileToolSpec creates the specification for the read_file tool.
func NewReadFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "read_file",
		Description: "Read the contents of a file. Returns the file content with line numbers.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to read", Required: true},
			{Name: "offset", Type: "integer", Description: "Line number to start reading from (0-based)"},
			{Name: "limit", Type: "integer", Description: "Maximum number of lines to read"},
		},
	}
}

// NewWriteFileToolSpec creates the specification for the write_file tool.
func NewWriteFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "write_file",
		Description: "Write content to a file, replacing anything already there.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to write", Required: true},
			{Name: "content", Type: "string", Description: "The full content to write", Required: true},
			{Name: "create_dirs", Type: "boolean", Description: "Create parent directories if needed (default false)"},
		},
	}
}

// NewCreateFileToolSpec creates the specification for the create_file tool.
func NewCreateFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "create_file",
		Description: "Create a new file. Fails if the file already exists.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path of the file to create", Required: true},
			{Name: "content", Type: "string", Description: "Initial content (default empty)"},
			{Name: "create_dirs", Type: "boolean", Description: "Create parent directories if needed (default false)"},
		},
	}
}

// NewDeleteFileToolSpec creates the specification for the delete_file tool.
func NewDeleteFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "delete_file",
		Description: "Delete a file or directory.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to delete", Required: true},
			{Name: "recursive", Type: "boolean", Description: "Allow deleting a non-empty directory (default false)"},
		},
	}
}

// NewMoveFileToolSpec creates the specification for the move_file tool.
func NewMoveFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "move_file",
		Description: "Move or rename a file.",
		Parameters: []ToolParameter{
			{Name: "source", Type: "string", Description: "Current path", Required: true},
			{Name: "destination", Type: "string", Description: "New path", Required: true},
		},
	}
}

// NewCopyFileToolSpec creates the specification for the copy_file tool.
func NewCopyFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "copy_file",
		Description: "Copy a file.",
		Parameters: []ToolParameter{
			{Name: "source", Type: "string", Description: "Path to copy from", Required: true},
			{Name: "destination", Type: "string", Description: "Path to copy to", Required: true},
		},
	}
}

// NewListFilesToolSpec creates the specification for the list_files tool.
func NewListFilesToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "list_files",
		Description: "List files and directories under a path.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "Directory to list (default: served root)"},
			{Name: "pattern", Type: "string", Description: "Glob filter on entry names (default *)"},
			{Name: "recursive", Type: "boolean", Description: "Recurse into subdirectories (default false)"},
			{Name: "include_hidden", Type: "boolean", Description: "Include dotfiles (default false)"},
		},
	}
}

// NewSearchFilesToolSpec creates the specification for the search_files tool.
func NewSearchFilesToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "search_files",
		Description: "Find files by name glob, optionally filtering by a content regex. Content hits report 1-based line numbers.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "Directory to search from (default: served root)"},
			{Name: "pattern", Type: "string", Description: "Glob filter on file names (default *)"},
			{Name: "content", Type: "string", Description: "Go regular expression matched per line"},
			{Name: "max_depth", Type: "integer", Description: "Limit directory depth (default unlimited)"},
		},
	}
}

// NewReplaceInFilesToolSpec creates the specification for the replace_in_files tool.
func NewReplaceInFilesToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "replace_in_files",
		Description: "Replace every match of a regex across the text files matching a name glob. Use patch_file for surgical single-file edits.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "Directory to search from (default: served root)"},
			{Name: "pattern", Type: "string", Description: "Glob filter on file names (default *)"},
			{Name: "find", Type: "string", Description: "Go regular expression to replace", Required: true},
			{Name: "replace", Type: "string", Description: "Replacement text", Required: true},
			{Name: "dry_run", Type: "boolean", Description: "Report counts without writing (default false)"},
		},
	}
}

// NewFileInfoToolSpec creates the specification for the file_info tool.
func NewFileInfoToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "file_info",
		Description: "Report size, type, permissions, modification time, and line count for a path.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to inspect", Required: true},
		},
	}
}
