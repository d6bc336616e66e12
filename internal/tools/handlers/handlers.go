// Package handlers implements the file-editing tool handlers exposed
// over MCP. Every handler resolves client paths through the shared
// path guard before touching the filesystem.
package handlers

import (
	"encoding/json"

	"github.com/filepatch/filepatch/internal/tools"
)

// jsonOutput marshals v as the tool's content with Success true.
func jsonOutput(v interface{}) *tools.ToolOutput {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return failure("encoding result: " + err.Error())
	}
	success := true
	return &tools.ToolOutput{Content: string(data), Success: &success}
}

// textOutput returns plain text content with Success true.
func textOutput(content string) *tools.ToolOutput {
	success := true
	return &tools.ToolOutput{Content: content, Success: &success}
}

// failure returns a tool-level failure with the given message.
func failure(message string) *tools.ToolOutput {
	success := false
	return &tools.ToolOutput{Content: message, Success: &success}
}
